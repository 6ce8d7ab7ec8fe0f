package diag

// Severity ранжирует диагностики: ошибки валят exit-код, предупреждения нет.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	// SevError — единственный уровень, который считается провалом прогона.
	SevError
)

// String returns the upper-case label used in rendered output.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
