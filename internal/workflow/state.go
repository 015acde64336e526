package workflow

// Phase — этап текущей попытки сокращения.
type Phase int

const (
	Idle Phase = iota
	Validating
	Submitting
	Success
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Сообщения, которые видит пользователь.
const (
	MsgEmptyInput      = "Please enter a URL"
	MsgInvalidURL      = "Please enter a valid URL starting with http:// or https://"
	MsgInvalidResponse = "Invalid response from URL shortening service"
	MsgNetwork         = "Network error. Please check your connection and try again."
)

// ErrorKind классифицирует неудачную попытку.
type ErrorKind string

const (
	NoError          ErrorKind = ""
	EmptyInput       ErrorKind = "empty_input"
	InvalidURLFormat ErrorKind = "invalid_url_format"
	ServiceError     ErrorKind = "service_error"
	InvalidResponse  ErrorKind = "invalid_response"
	NetworkError     ErrorKind = "network_error"
)

// State — то, что отображает страница.
// IsLoading и непустой Error никогда не выставлены одновременно.
type State struct {
	URL       string    `json:"url"`
	ShortURL  string    `json:"short_url"`
	IsLoading bool      `json:"is_loading"`
	Error     string    `json:"error"`
	Phase     Phase     `json:"-"`
	Kind      ErrorKind `json:"-"`
}

// PhaseName нужен шаблонам и JSON-ответам.
func (s State) PhaseName() string {
	return s.Phase.String()
}
