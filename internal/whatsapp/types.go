package whatsapp

// Wire types for the Cloud API send-message endpoint. Only the fields this
// bot actually sends are modeled; the vendor schema allows more.

type textBody struct {
	Body string `json:"body"`
}

type sendRequest struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             *textBody    `json:"text,omitempty"`
	Interactive      *Interactive `json:"interactive,omitempty"`
}

// Interactive is a structured list/button message payload.
type Interactive struct {
	Type   string             `json:"type"` // "list" or "button"
	Header *InteractiveHeader `json:"header,omitempty"`
	Body   InteractiveBody    `json:"body"`
	Footer *InteractiveFooter `json:"footer,omitempty"`
	Action InteractiveAction  `json:"action"`
}

type InteractiveHeader struct {
	Type string `json:"type"` // "text"
	Text string `json:"text"`
}

type InteractiveBody struct {
	Text string `json:"text"`
}

type InteractiveFooter struct {
	Text string `json:"text"`
}

type InteractiveAction struct {
	Button   string    `json:"button,omitempty"`
	Sections []Section `json:"sections,omitempty"`
}

// Section groups rows under a title in a list message.
type Section struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

// Row is one selectable list entry. The ID is the only value the dispatcher
// acts on when the selection comes back as an interactive reply.
type Row struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type sendResponse struct {
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

// mediaMetadata is the response of the media-metadata endpoint: an opaque
// media identifier resolves to a short-lived download URL plus MIME type.
type mediaMetadata struct {
	URL      string    `json:"url"`
	MimeType string    `json:"mime_type"`
	SHA256   string    `json:"sha256"`
	FileSize int64     `json:"file_size"`
	ID       string    `json:"id"`
	Error    *apiError `json:"error,omitempty"`
}
