package webhook

import "encoding/json"

// Inbound envelope types for the Cloud API webhook POST body. Only the
// nested fields this bot acts on are modeled.

type envelope struct {
	Entry []entry `json:"entry"`
}

type entry struct {
	Changes []change `json:"changes"`
}

type change struct {
	Value value `json:"value"`
}

type value struct {
	Statuses []json.RawMessage `json:"statuses"`
	Messages []inboundMessage  `json:"messages"`
}

type inboundMessage struct {
	From        string              `json:"from"`
	ID          string              `json:"id"`
	Type        string              `json:"type"`
	Text        *inboundText        `json:"text"`
	Interactive *inboundInteractive `json:"interactive"`
	Image       *inboundMedia       `json:"image"`
	Audio       *inboundMedia       `json:"audio"`
}

type inboundText struct {
	Body string `json:"body"`
}

type inboundMedia struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
	Caption  string `json:"caption"`
}

type inboundInteractive struct {
	Type        string     `json:"type"`
	ButtonReply *selection `json:"button_reply"`
	ListReply   *selection `json:"list_reply"`
}

// selection is the user's choice from a vendor-rendered button/list UI:
// an identifier plus display title, never free text.
type selection struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Status tags returned in the always-200 webhook acknowledgement body.
const (
	statusMessageProcessed = "message_processed"
	statusImageProcessed   = "image_processed"
	statusAudioProcessed   = "audio_processed"
	statusAudioUnavailable = "audio_unavailable"
	statusStatusIgnored    = "status_update_ignored"
	statusUnsupportedType  = "unsupported_type"
	statusRuntimeError     = "runtime_error"
	statusMalformed        = "malformed_json_structure"
	statusMissingFrom      = "missing_from_number"
	statusMessageTextEmpty = "message_text_empty"
	statusAcknowledged     = "acknowledged"
)
