package ports

import "context"

// StoredAsset is the durable location of an uploaded blob: a permanent URL
// plus a download URL that forces an attachment disposition.
type StoredAsset struct {
	URL         string
	DownloadURL string
}

// AssetStore is the durable object store for generated output.
type AssetStore interface {
	StoreAudio(ctx context.Context, data []byte, filename string) (*StoredAsset, error)
	StoreText(ctx context.Context, text, filename string) (*StoredAsset, error)
}
