package download

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/hlsrip-cli/hlsrip/converter"
	"github.com/hlsrip-cli/hlsrip/filesystem"
	"github.com/hlsrip-cli/hlsrip/key"
	"github.com/hlsrip-cli/hlsrip/playlist"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

// segmentServer serves byte payloads by path and records the request order.
type segmentServer struct {
	mu       sync.Mutex
	requests []string
	routes   map[string][]byte
	status   map[string]int
}

func newSegmentServer() (*segmentServer, *httptest.Server) {
	ss := &segmentServer{
		routes: make(map[string][]byte),
		status: make(map[string]int),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ss.mu.Lock()
		ss.requests = append(ss.requests, r.URL.Path)
		ss.mu.Unlock()

		if code, ok := ss.status[r.URL.Path]; ok {
			w.WriteHeader(code)
			return
		}

		body, ok := ss.routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(body)
	}))

	return ss, server
}

func (ss *segmentServer) requestCount() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.requests)
}

func (ss *segmentServer) requested(path string) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	for _, p := range ss.requests {
		if p == path {
			return true
		}
	}
	return false
}

func segmentsFor(server *httptest.Server, paths ...string) []playlist.Segment {
	var segments []playlist.Segment
	for i, p := range paths {
		segments = append(segments, playlist.Segment{URL: server.URL + p, Sequence: i})
	}
	return segments
}

func TestAssemble(t *testing.T) {
	Convey("Assemble", t, func() {
		filesystem.SetMemMapFs()

		Convey("Concatenation is order-preserving and byte-exact", func() {
			ss, server := newSegmentServer()
			defer server.Close()
			ss.routes["/a.ts"] = []byte("AAA")
			ss.routes["/b.ts"] = []byte("BBB")
			ss.routes["/c.ts"] = []byte("CCC")

			err := Assemble(context.Background(), segmentsFor(server, "/a.ts", "/b.ts", "/c.ts"), "/tmp/out.raw", nil)

			So(err, ShouldBeNil)
			So(string(lo.Must(filesystem.API().ReadFile("/tmp/out.raw"))), ShouldEqual, "AAABBBCCC")
		})

		Convey("A failing segment aborts before any later fetch", func() {
			ss, server := newSegmentServer()
			defer server.Close()
			ss.routes["/a.ts"] = []byte("AAA")
			ss.status["/b.ts"] = http.StatusInternalServerError
			ss.routes["/c.ts"] = []byte("CCC")

			err := Assemble(context.Background(), segmentsFor(server, "/a.ts", "/b.ts", "/c.ts"), "/tmp/out.raw", nil)

			var fetchErr *playlist.FetchError
			So(errors.As(err, &fetchErr), ShouldBeTrue)
			So(fetchErr.URL, ShouldEqual, server.URL+"/b.ts")
			So(ss.requestCount(), ShouldEqual, 2)
			So(ss.requested("/c.ts"), ShouldBeFalse)
		})

		Convey("Progress reports each completed segment", func() {
			ss, server := newSegmentServer()
			defer server.Close()
			ss.routes["/a.ts"] = []byte("AAA")
			ss.routes["/b.ts"] = []byte("BBB")

			var calls []int
			err := Assemble(context.Background(), segmentsFor(server, "/a.ts", "/b.ts"), "/tmp/out.raw", func(done, total int) {
				So(total, ShouldEqual, 2)
				calls = append(calls, done)
			})

			So(err, ShouldBeNil)
			So(calls, ShouldResemble, []int{0, 1, 2})
		})
	})
}

// fakeConverter records the raw input it received and fabricates an MP3.
type fakeConverter struct {
	input []byte
	fail  error
}

func (f *fakeConverter) Convert(_ context.Context, inputPath, outputPath string) error {
	if f.fail != nil {
		return f.fail
	}
	f.input = lo.Must(filesystem.API().ReadFile(inputPath))
	return filesystem.API().WriteFile(outputPath, []byte("ID3"), 0644)
}

func TestRip(t *testing.T) {
	Convey("Rip", t, func() {
		filesystem.SetMemMapFs()
		viper.Set(key.DownloadsSaveHistory, false)

		ss, server := newSegmentServer()
		defer server.Close()
		ss.routes["/master.m3u8"] = []byte(`#EXTM3U
#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=128000
v1.m3u8
#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=256000
v2.m3u8
`)
		ss.routes["/v1.m3u8"] = []byte(`#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:10
#EXTINF:10.0,
a.ts
#EXTINF:10.0,
b.ts
#EXT-X-ENDLIST
`)
		ss.routes["/a.ts"] = []byte("AAA")
		ss.routes["/b.ts"] = []byte("BBB")

		Convey("End to end: master playlist to MP3 via the first variant only", func() {
			fake := &fakeConverter{}
			output, err := Rip(context.Background(), &Options{
				URL:       server.URL + "/master.m3u8",
				Output:    "/music/show.mp3",
				Converter: fake,
			})

			So(err, ShouldBeNil)
			So(output, ShouldEqual, "/music/show.mp3")
			So(string(fake.input), ShouldEqual, "AAABBB")
			So(string(lo.Must(filesystem.API().ReadFile("/music/show.mp3"))), ShouldEqual, "ID3")
			So(ss.requested("/v2.m3u8"), ShouldBeFalse)
		})

		Convey("Refuses to overwrite an existing output without Force", func() {
			So(filesystem.API().WriteFile("/music/show.mp3", []byte("old"), 0644), ShouldBeNil)

			_, err := Rip(context.Background(), &Options{
				URL:       server.URL + "/master.m3u8",
				Output:    "/music/show.mp3",
				Converter: &fakeConverter{},
			})

			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "already exists")
		})

		Convey("Force overwrites an existing output", func() {
			So(filesystem.API().WriteFile("/music/show.mp3", []byte("old"), 0644), ShouldBeNil)

			output, err := Rip(context.Background(), &Options{
				URL:       server.URL + "/master.m3u8",
				Output:    "/music/show.mp3",
				Force:     true,
				Converter: &fakeConverter{},
			})

			So(err, ShouldBeNil)
			So(string(lo.Must(filesystem.API().ReadFile(output))), ShouldEqual, "ID3")
		})

		Convey("A converter failure surfaces as an AssemblyError", func() {
			fail := &converter.ProcessError{Command: "ffmpeg", ExitCode: 1}
			_, err := Rip(context.Background(), &Options{
				URL:       server.URL + "/master.m3u8",
				Output:    "/music/broken.mp3",
				Converter: &fakeConverter{fail: fail},
			})

			var assemblyErr *AssemblyError
			So(errors.As(err, &assemblyErr), ShouldBeTrue)
			var processErr *converter.ProcessError
			So(errors.As(err, &processErr), ShouldBeTrue)
		})

		Convey("Rejects non-http URLs", func() {
			_, err := Rip(context.Background(), &Options{URL: "ftp://host/media.m3u8"})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "http")
		})

		Convey("Rejects outputs without the .mp3 extension", func() {
			_, err := Rip(context.Background(), &Options{
				URL:    server.URL + "/master.m3u8",
				Output: "/music/show.wav",
			})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, ".mp3")
		})
	})
}

func TestOutputPathInference(t *testing.T) {
	Convey("Inferred output path", t, func() {
		filesystem.SetMemMapFs()
		viper.Set(key.DownloadsPath, "/music")

		source := lo.Must(parseSourceURL("https://host/streams/late%20night.m3u8"))
		output, err := outputPath(&Options{}, source)

		So(err, ShouldBeNil)
		So(output, ShouldEqual, "/music/late_night.mp3")
	})
}
