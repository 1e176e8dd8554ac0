package converter

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFFmpegArgs(t *testing.T) {
	Convey("FFmpeg argument construction", t, func() {
		Convey("Uses the configured bitrate", func() {
			f := &FFmpeg{Bitrate: "192k"}
			args := f.args("/tmp/raw.ts", "/out/song.mp3")
			So(args, ShouldResemble, []string{
				"-y", "-i", "/tmp/raw.ts", "-vn", "-acodec", "libmp3lame", "-ab", "192k", "/out/song.mp3",
			})
		})

		Convey("Falls back to 128k when unset", func() {
			f := &FFmpeg{}
			args := f.args("in", "out")
			So(args, ShouldContain, "128k")
		})

		Convey("Binary falls back to PATH lookup name", func() {
			So((&FFmpeg{}).binary(), ShouldEqual, "ffmpeg")
			So((&FFmpeg{Path: "/usr/local/bin/ffmpeg"}).binary(), ShouldEqual, "/usr/local/bin/ffmpeg")
		})
	})
}

func TestProcessError(t *testing.T) {
	Convey("ProcessError", t, func() {
		Convey("Includes the last stderr line", func() {
			err := &ProcessError{
				Command:  "ffmpeg",
				ExitCode: 1,
				Stderr:   "config lines\nInvalid data found when processing input\n",
			}
			So(err.Error(), ShouldContainSubstring, "status 1")
			So(err.Error(), ShouldContainSubstring, "Invalid data found")
		})

		Convey("Omits the diagnostic when stderr is empty", func() {
			err := &ProcessError{Command: "ffmpeg", ExitCode: 187}
			So(err.Error(), ShouldEqual, "ffmpeg exited with status 187")
		})
	})
}
