package domain

type FileMetadataType string

const (
	MetadataFile  FileMetadataType = "File"
	MetadataText  FileMetadataType = "Text"
	MetadataImage FileMetadataType = "Image"
	MetadataVideo FileMetadataType = "Video"
	MetadataAudio FileMetadataType = "Audio"
)

type FileMetadata struct {
	Type   FileMetadataType `json:"type"`
	Width  *int             `json:"width,omitempty"`
	Height *int             `json:"height,omitempty"`
}

// File is an uploaded attachment, referenced by messages, servers and members.
type File struct {
	ID          string       `json:"_id"`
	Tag         string       `json:"tag"`
	Filename    string       `json:"filename"`
	Metadata    FileMetadata `json:"metadata"`
	ContentType string       `json:"content_type"`
	Size        int64        `json:"size"`
	Deleted     *bool        `json:"deleted,omitempty"`
	Reported    *bool        `json:"reported,omitempty"`
	MessageID   *string      `json:"message_id,omitempty"`
	UserID      *string      `json:"user_id,omitempty"`
	ServerID    *string      `json:"server_id,omitempty"`
	ObjectID    *string      `json:"object_id,omitempty"`
}
