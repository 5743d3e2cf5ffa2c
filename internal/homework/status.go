package homework

import "fmt"

const (
	StatusApproved  = "approved"
	StatusReviewing = "reviewing"
	StatusRejected  = "rejected"
)

const (
	keyHomeworkName = "homework_name"
	keyStatus       = "status"
)

// verdicts must match the review API status codes exactly.
var verdicts = map[string]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Verdict returns the human-readable text for a status code.
func Verdict(status string) (string, bool) {
	v, ok := verdicts[status]
	return v, ok
}

// ParseStatus builds the verdict message for one homework record.
func ParseStatus(record any) (string, error) {
	hw, ok := record.(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: homework record is %s, want object", ErrMalformedResponse, kindOf(record))
	}

	rawName, ok := hw[keyHomeworkName]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingField, keyHomeworkName)
	}
	name, ok := rawName.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %s, want string", ErrInvalidFieldType, keyHomeworkName, kindOf(rawName))
	}

	status, _ := hw[keyStatus].(string)
	verdict, ok := verdicts[status]
	if !ok {
		return "", fmt.Errorf("%w: %v", ErrUnknownStatus, hw[keyStatus])
	}

	return FormatMessage(name, verdict), nil
}

// FormatMessage composes the notification text for a status change.
func FormatMessage(name, verdict string) string {
	return fmt.Sprintf(`Changed review status for "%s". %s`, name, verdict)
}
