package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestParseInterchange(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     string
		wantName string
		wantText string
		wantErr  error
	}{
		{
			name:     "json",
			filename: "x.gstpipe",
			data:     `{"name":"Cam","pipeline":"rtspsrc ! fakesink"}`,
			wantName: "Cam",
			wantText: "rtspsrc ! fakesink",
		},
		{
			name:     "text alias",
			filename: "x.gstpipe",
			data:     `{"name":"Old","text":"videotestsrc ! fakesink"}`,
			wantName: "Old",
			wantText: "videotestsrc ! fakesink",
		},
		{
			name:     "bom and whitespace",
			filename: "x.gstpipe",
			data:     "\xef\xbb\xbf  {\"name\":\"B\",\"pipeline\":\" udpsrc ! fakesink \"}\n",
			wantName: "B",
			wantText: "udpsrc ! fakesink",
		},
		{
			name:     "blank json name falls back to file",
			filename: "/tmp/lobby.gstpipe",
			data:     `{"name":"  ","pipeline":"videotestsrc ! fakesink"}`,
			wantName: "lobby",
			wantText: "videotestsrc ! fakesink",
		},
		{
			name:     "raw multi-line",
			filename: "/home/u/cams/front door.gstpipe",
			data:     "rtspsrc location=rtsp://door\n\n  ! decodebin\r\n ! autovideosink\n",
			wantName: "front door",
			wantText: "rtspsrc location=rtsp://door ! decodebin ! autovideosink",
		},
		{
			name:     "raw stem up to last extension",
			filename: "a.gstpipe.b.gstpipe",
			data:     "videotestsrc ! fakesink",
			wantName: "a.gstpipe.b",
			wantText: "videotestsrc ! fakesink",
		},
		{
			name:     "raw without stem",
			filename: ".gstpipe",
			data:     "videotestsrc ! fakesink",
			wantName: DefaultImportName,
			wantText: "videotestsrc ! fakesink",
		},
		{
			name:     "raw keeps other extensions",
			filename: "notes.txt",
			data:     "videotestsrc ! fakesink",
			wantName: "notes.txt",
			wantText: "videotestsrc ! fakesink",
		},
		{name: "empty", filename: "e.gstpipe", data: " \n\t\n", wantErr: ErrEmptyPipeline},
		{name: "malformed json", filename: "m.gstpipe", data: `{"name":`, wantErr: ErrInvalidInterchange},
		{name: "missing pipeline", filename: "m.gstpipe", data: `{"name":"x"}`, wantErr: ErrInvalidInterchange},
		{name: "missing name", filename: "m.gstpipe", data: `{"pipeline":"x"}`, wantErr: ErrInvalidInterchange},
		{name: "empty pipeline", filename: "m.gstpipe", data: `{"name":"x","pipeline":"  "}`, wantErr: ErrEmptyPipeline},
		{name: "snapshot array", filename: "export.json", data: "\n [{\"id\":\"a\",\"name\":\"x\",\"pipeline\":\"videotestsrc ! fakesink\"}]", wantErr: ErrInvalidInterchange},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			name, text, err := ParseInterchange(tc.filename, []byte(tc.data))
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseInterchange: %v", err)
			}
			if name != tc.wantName || text != tc.wantText {
				t.Fatalf("got (%q, %q), want (%q, %q)", name, text, tc.wantName, tc.wantText)
			}
		})
	}
}

func TestMarshalInterchangeRoundTrip(t *testing.T) {
	e := Entry{Name: "a & b", Text: "videotestsrc pattern=ball ! autovideosink"}
	data, err := MarshalInterchange(e)
	if err != nil {
		t.Fatalf("MarshalInterchange: %v", err)
	}
	want := "{\n  \"name\": \"a & b\",\n  \"pipeline\": \"videotestsrc pattern=ball ! autovideosink\"\n}"
	if string(data) != want {
		t.Fatalf("unexpected encoding:\n%s", data)
	}
	name, text, err := ParseInterchange(FileName(e.Name), data)
	if err != nil || name != e.Name || text != e.Text {
		t.Fatalf("round trip mismatch: %q %q %v", name, text, err)
	}
}

func TestFileName(t *testing.T) {
	cases := map[string]string{
		"Front Door": "Front_Door.gstpipe",
		"cam-1_hd":   "cam-1_hd.gstpipe",
		"ünï/cödé?":  "_n__c_d__.gstpipe",
		"":           ".gstpipe",
		"a.b":        "a_b.gstpipe",
	}
	for in, want := range cases {
		if got := FileName(in); got != want {
			t.Fatalf("FileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestShareWritesRawText(t *testing.T) {
	fsys := afero.NewMemMapFs()
	e := newEntry("Lobby Cam", "rtspsrc location=rtsp://lobby ! autovideosink", time.Now())
	path, err := Share(fsys, "/share", e)
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	if path != "/share/Lobby_Cam.gstpipe" {
		t.Fatalf("unexpected path %q", path)
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		t.Fatalf("read shared file: %v", err)
	}
	if string(data) != e.Text {
		t.Fatalf("expected raw text, got %q", data)
	}
}
