package model

// Asset is a binary record (sprite image or audio clip) stored in a collection.
// Content is never serialized to clients; listings only expose metadata.
type Asset struct {
	ID       string `json:"_id"`
	Filename string `json:"filename"`
	Content  []byte `json:"-"`
}

// Upload is an incoming binary payload before it has been validated against a kind.
type Upload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Asset converts the upload into an unsaved Asset.
func (u Upload) Asset() Asset {
	return Asset{Filename: u.Filename, Content: u.Content}
}
