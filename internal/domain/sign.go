package domain

import "errors"

// DefaultBaseURL is the address the dictionary service listens on locally.
const DefaultBaseURL = "http://127.0.0.1:5000"

// Media points at the sign assets for a dictionary entry. Paths are relative
// to the dictionary service origin.
type Media struct {
	Image       string `json:"image,omitempty"`
	Video       string `json:"video,omitempty"`
	Translation string `json:"translation"`
}

// LookupResult is one dictionary record returned per matched word or phrase.
type LookupResult struct {
	Word         string `json:"word"`
	Found        bool   `json:"found"`
	Media        *Media `json:"media"`
	IsFullPhrase bool   `json:"is_full_phrase,omitempty"`
}

// TranslateRequest is the body of POST /translate.
type TranslateRequest struct {
	Text string `json:"text"`
}

// TranslateResponse is the success body of POST /translate.
type TranslateResponse struct {
	Results      []LookupResult `json:"results"`
	IsFullPhrase bool           `json:"is_full_phrase"`
	OriginalText string         `json:"original_text,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status         string `json:"status"`
	DictionarySize int    `json:"dictionary_size"`
	AIModel        string `json:"ai_model,omitempty"`
}

// ErrorResponse is the body returned by the service with a non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorKind classifies why a translation produced nothing to show.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindValidation
	KindTransport
	KindServer
	KindEmpty
	KindMedia
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	case KindServer:
		return "server"
	case KindEmpty:
		return "empty"
	case KindMedia:
		return "media"
	default:
		return "none"
	}
}

// User-facing messages.
const (
	MsgEmptyInput    = "Please enter some text"
	MsgNoSign        = "No sign found for the input text"
	MsgNoMedia       = "No media found for the word(s)"
	MsgConnectFailed = "Failed to connect to server"
)

// ErrEmptyInput is returned when the text to translate is blank.
var ErrEmptyInput = errors.New(MsgEmptyInput)

