package playlist

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// playlistServer serves canned m3u8 documents by path and records every request.
type playlistServer struct {
	mu       sync.Mutex
	requests []string
	routes   map[string]string
	status   map[string]int
}

func newPlaylistServer() (*playlistServer, *httptest.Server) {
	ps := &playlistServer{
		routes: make(map[string]string),
		status: make(map[string]int),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ps.mu.Lock()
		ps.requests = append(ps.requests, r.URL.Path)
		ps.mu.Unlock()

		if code, ok := ps.status[r.URL.Path]; ok {
			w.WriteHeader(code)
			return
		}

		body, ok := ps.routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/vnd.apple.mpegurl")
		_, _ = w.Write([]byte(body))
	}))

	return ps, server
}

func (ps *playlistServer) requested(path string) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	for _, p := range ps.requests {
		if p == path {
			return true
		}
	}
	return false
}

const mediaPlaylist = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:10
#EXTINF:9.9,
a.ts
#EXTINF:10.0,
b.ts
#EXTINF:10.1,
c.ts
#EXT-X-ENDLIST
`

func TestResolveMediaPlaylist(t *testing.T) {
	Convey("Given a media playlist with three segments", t, func() {
		ps, server := newPlaylistServer()
		defer server.Close()
		ps.routes["/audio/media.m3u8"] = mediaPlaylist

		segments, err := NewResolver().Resolve(context.Background(), server.URL+"/audio/media.m3u8")

		Convey("It returns every segment in source order", func() {
			So(err, ShouldBeNil)
			So(segments, ShouldHaveLength, 3)
			So(segments[0].URL, ShouldEqual, server.URL+"/audio/a.ts")
			So(segments[1].URL, ShouldEqual, server.URL+"/audio/b.ts")
			So(segments[2].URL, ShouldEqual, server.URL+"/audio/c.ts")
		})

		Convey("Sequence numbers follow playlist order", func() {
			So(err, ShouldBeNil)
			for i, seg := range segments {
				So(seg.Sequence, ShouldEqual, i)
			}
		})
	})
}

func TestResolveAbsoluteSegmentURLs(t *testing.T) {
	Convey("Given a media playlist with absolute segment URLs", t, func() {
		ps, server := newPlaylistServer()
		defer server.Close()
		ps.routes["/media.m3u8"] = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:5
#EXTINF:4.0,
https://cdn.example.com/a.ts
#EXT-X-ENDLIST
`

		segments, err := NewResolver().Resolve(context.Background(), server.URL+"/media.m3u8")

		Convey("Absolute URLs pass through unchanged", func() {
			So(err, ShouldBeNil)
			So(segments, ShouldHaveLength, 1)
			So(segments[0].URL, ShouldEqual, "https://cdn.example.com/a.ts")
		})
	})
}

func TestResolveMasterPlaylist(t *testing.T) {
	Convey("Given a master playlist with two variants", t, func() {
		ps, server := newPlaylistServer()
		defer server.Close()
		ps.routes["/master.m3u8"] = `#EXTM3U
#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=128000
v1/media.m3u8
#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=256000
v2/media.m3u8
`
		ps.routes["/v1/media.m3u8"] = mediaPlaylist

		segments, err := NewResolver().Resolve(context.Background(), server.URL+"/master.m3u8")

		Convey("It follows only the first-listed variant", func() {
			So(err, ShouldBeNil)
			So(segments, ShouldHaveLength, 3)
			So(segments[0].URL, ShouldEqual, server.URL+"/v1/a.ts")
			So(ps.requested("/v1/media.m3u8"), ShouldBeTrue)
			So(ps.requested("/v2/media.m3u8"), ShouldBeFalse)
		})

		Convey("Segment URLs resolve against the variant playlist URL, not the master", func() {
			So(err, ShouldBeNil)
			for _, seg := range segments {
				So(seg.URL, ShouldStartWith, server.URL+"/v1/")
			}
		})
	})
}

func TestResolveNestedMasterPlaylist(t *testing.T) {
	Convey("Given a master playlist whose first variant is another master", t, func() {
		ps, server := newPlaylistServer()
		defer server.Close()
		ps.routes["/master.m3u8"] = `#EXTM3U
#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=128000
inner.m3u8
`
		ps.routes["/inner.m3u8"] = `#EXTM3U
#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=128000
media.m3u8
`

		_, err := NewResolver().Resolve(context.Background(), server.URL+"/master.m3u8")

		Convey("Resolution fails as malformed", func() {
			So(errors.Is(err, ErrMalformed), ShouldBeTrue)
		})
	})
}

func TestResolveEmptyMediaPlaylist(t *testing.T) {
	Convey("Given a media playlist without segments", t, func() {
		ps, server := newPlaylistServer()
		defer server.Close()
		ps.routes["/media.m3u8"] = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:10
#EXT-X-ENDLIST
`

		_, err := NewResolver().Resolve(context.Background(), server.URL+"/media.m3u8")

		Convey("Resolution fails with the empty playlist error", func() {
			So(errors.Is(err, ErrEmpty), ShouldBeTrue)
		})
	})
}

func TestResolveMalformedPlaylist(t *testing.T) {
	Convey("Given a document that is not an m3u8 playlist", t, func() {
		ps, server := newPlaylistServer()
		defer server.Close()
		ps.routes["/media.m3u8"] = "this is not a playlist"

		_, err := NewResolver().Resolve(context.Background(), server.URL+"/media.m3u8")

		Convey("Resolution fails as malformed", func() {
			So(errors.Is(err, ErrMalformed), ShouldBeTrue)
		})
	})
}

func TestResolveFetchFailure(t *testing.T) {
	Convey("Given a playlist URL answering 404", t, func() {
		ps, server := newPlaylistServer()
		defer server.Close()
		ps.status["/gone.m3u8"] = http.StatusNotFound

		_, err := NewResolver().Resolve(context.Background(), server.URL+"/gone.m3u8")

		Convey("Resolution fails with a FetchError carrying the URL and status", func() {
			var fetchErr *FetchError
			So(errors.As(err, &fetchErr), ShouldBeTrue)
			So(fetchErr.Status, ShouldEqual, http.StatusNotFound)
			So(fetchErr.URL, ShouldEqual, server.URL+"/gone.m3u8")
		})
	})
}

func TestResolveReference(t *testing.T) {
	Convey("resolveReference", t, func() {
		cases := []struct {
			base, ref, want string
		}{
			{"https://host/path/media.m3u8", "seg1.ts", "https://host/path/seg1.ts"},
			{"https://host/path/media.m3u8", "/root.ts", "https://host/root.ts"},
			{"https://host/media.m3u8", "sub/seg.ts", "https://host/sub/seg.ts"},
			{"https://host/media.m3u8", "https://cdn/seg.ts", "https://cdn/seg.ts"},
		}

		for _, c := range cases {
			Convey(fmt.Sprintf("%s + %s", c.base, c.ref), func() {
				got, err := resolveReference(c.base, c.ref)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, c.want)
			})
		}
	})
}
