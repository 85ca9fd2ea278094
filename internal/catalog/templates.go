package catalog

import (
	"context"
	"time"

	"pipedeck/internal/logging"
)

// Template is a built-in pipeline added to an empty catalog.
type Template struct {
	Name     string
	Text     string
	Favorite bool
}

// Templates are the pipelines seeded into an empty catalog.
var Templates = []Template{
	{
		Name:     "VAST",
		Text:     "udpsrc address=239.255.1.2 port=1650 multicast-iface=tun0 ! application/x-rtp,media=video,clock-rate=90000,encoding-name=AV1 ! rtpjitterbuffer latency=100 ! rtpav1depay ! av1parse ! dav1ddec n-threads=8 ! autovideosink",
		Favorite: true,
	},
	{
		Name:     "CDS_HIGH_LOW",
		Text:     "udpsrc address=224.0.1.2 port=3000 ! queue2 ! tsparse ! tsdemux ! h264parse ! avdec_h264 ! glimagesink",
		Favorite: true,
	},
}

// SeedIfEmpty adds the templates when the catalog is currently empty. It
// reports whether anything was added. The check is on current contents, so
// a catalog emptied later is seeded again.
func SeedIfEmpty(ctx context.Context, store *Store, now time.Time) (bool, error) {
	if len(store.Load(ctx)) > 0 {
		return false, nil
	}
	for _, tmpl := range Templates {
		e := newEntry(tmpl.Name, tmpl.Text, now)
		e.Favorite = tmpl.Favorite
		if _, err := store.Add(ctx, e); err != nil {
			return false, err
		}
	}
	store.logger.Info("catalog seeded with templates", logging.Int(logging.FieldCount, len(Templates)))
	return true, nil
}
