package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type sampleStatus struct {
	Input   string
	Records uint64
}

var _ = Describe("Monitor", func() {
	var m *Monitor

	BeforeEach(func() {
		m = NewMonitor()
	})

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		m.Router().ServeHTTP(rec, req)

		return rec
	}

	It("should list progress bars", func() {
		bar := m.CreateProgressBar("Converting", 100)
		bar.IncrementFinished(25)

		rsp := get("/api/progress")

		Expect(rsp.Code).To(Equal(http.StatusOK))
		var bars []map[string]any
		Expect(json.Unmarshal(rsp.Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0]["name"]).To(Equal("Converting"))
		Expect(bars[0]["finished"]).To(BeNumerically("==", 25))
		Expect(bars[0]["id"]).NotTo(BeEmpty())
		Expect(bar.Percent()).To(BeNumerically("~", 25.0))
	})

	It("should drop completed progress bars", func() {
		a := m.CreateProgressBar("a", 1)
		m.CreateProgressBar("b", 1)

		m.CompleteProgressBar(a)

		Expect(m.progressBars).To(HaveLen(1))
		Expect(m.progressBars[0].Name).To(Equal("b"))
	})

	It("should list and serve registered statuses", func() {
		m.RegisterStatus("run", &sampleStatus{Input: "logfile", Records: 3})

		rsp := get("/api/status")
		Expect(rsp.Body.String()).To(Equal(`["run"]`))

		rsp = get("/api/status/run")
		Expect(rsp.Code).To(Equal(http.StatusOK))
		Expect(rsp.Body.Len()).To(BeNumerically(">", 0))
	})

	It("should return 404 for unknown statuses", func() {
		rsp := get("/api/status/nothing")

		Expect(rsp.Code).To(Equal(http.StatusNotFound))
	})

	It("should report resource usage", func() {
		rsp := get("/api/resource")

		Expect(rsp.Code).To(Equal(http.StatusOK))
		var res resourceRsp
		Expect(json.Unmarshal(rsp.Body.Bytes(), &res)).To(Succeed())
		Expect(res.MemorySize).To(BeNumerically(">", 0))
	})

	It("should refuse to open a browser before the server starts", func() {
		Expect(m.OpenBrowser()).To(HaveOccurred())
	})

	It("should replace reserved port numbers with a random port", func() {
		notice := new(bytes.Buffer)
		m.notice = notice

		m.WithPortNumber(80)

		Expect(m.portNumber).To(Equal(0))
		Expect(notice.String()).To(ContainSubstring("Port number 80"))
	})

	It("should pick a random port quietly when asked for port 0", func() {
		notice := new(bytes.Buffer)
		m.notice = notice

		m.WithPortNumber(0)

		Expect(m.portNumber).To(Equal(0))
		Expect(notice.String()).To(BeEmpty())
	})

	It("should keep an allowed port", func() {
		m.WithPortNumber(8080)

		Expect(m.portNumber).To(Equal(8080))
	})

	It("should start and shut down the server", func() {
		url := m.StartServer()

		Expect(url).To(HavePrefix("http://localhost:"))
		Expect(m.Shutdown(context.Background())).To(Succeed())
	})
})
