package domain

type EmbedType string

const (
	EmbedWebsite EmbedType = "Website"
	EmbedImage   EmbedType = "Image"
	EmbedVideo   EmbedType = "Video"
	EmbedText    EmbedType = "Text"
	EmbedNone    EmbedType = "None"
)

type EmbedMedia struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Embed is rich content attached to a message, either unfurled from a link
// or built by the sender from a SendableEmbed.
type Embed struct {
	Type        EmbedType   `json:"type"`
	URL         *string     `json:"url,omitempty"`
	SiteName    *string     `json:"site_name,omitempty"`
	IconURL     *string     `json:"icon_url,omitempty"`
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Colour      *string     `json:"colour,omitempty"`
	Image       *EmbedMedia `json:"image,omitempty"`
	Video       *EmbedMedia `json:"video,omitempty"`
	Media       *File       `json:"media,omitempty"`
}

// SendableEmbed is the embed a client submits before it is turned into a Text embed.
type SendableEmbed struct {
	IconURL     *string `json:"icon_url,omitempty" validate:"omitempty,min=1,max=128"`
	URL         *string `json:"url,omitempty" validate:"omitempty,url"`
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=1,max=2000"`
	Media       *string `json:"media,omitempty"`
	Colour      *string `json:"colour,omitempty" validate:"omitempty,min=1,max=128,colour"`
}

// ToEmbed builds the stored Text embed. media is the resolved attachment, if any.
func (s SendableEmbed) ToEmbed(media *File) Embed {
	return Embed{
		Type:        EmbedText,
		URL:         clonePtr(s.URL),
		IconURL:     clonePtr(s.IconURL),
		Title:       clonePtr(s.Title),
		Description: clonePtr(s.Description),
		Colour:      clonePtr(s.Colour),
		Media:       media,
	}
}
