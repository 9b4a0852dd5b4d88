package report

// Severity classifies an issue. Fatal issues block configuration activation;
// warnings are advisory and never do.
type Severity string

const (
	SeverityFatal   Severity = "fatal"
	SeverityWarning Severity = "warning"
)

// Code identifies the rule an issue was raised by. Codes are stable strings so
// that consumers (and tests) can match on them without parsing messages.
type Code string

const (
	// Fatal codes.
	CodeMissingRequiredCapability Code = "MissingRequiredCapability"
	CodeConflictingServices       Code = "ConflictingServices"
	CodeCyclicDependency          Code = "CyclicDependency"
	CodeUnknownService            Code = "UnknownService"
	CodePortOutOfRange            Code = "PortOutOfRange"
	CodePortCollision             Code = "PortCollision"
	CodeDataDirCollision          Code = "DataDirCollision"
	CodeInvalidDomainFormat       Code = "InvalidDomainFormat"
	CodeMissingDatabaseCredential Code = "MissingDatabaseCredential"
	CodeInconsistentSslConfig     Code = "InconsistentSslConfig"

	// Warning codes.
	CodeDevModeWithProdLikeDomain     Code = "DevModeWithProdLikeDomain"
	CodeDefaultDomainUnchanged        Code = "DefaultDomainUnchanged"
	CodeUnencryptedDatabaseLink       Code = "UnencryptedDatabaseLink"
	CodeSslDisabledInProd             Code = "SslDisabledInProd"
	CodeOptionalCapabilityUnsatisfied Code = "OptionalCapabilityUnsatisfied"
)

// Issue is a single diagnostic raised during resolution or validation.
type Issue struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Code     Code     `json:"code" yaml:"code"`
	Service  string   `json:"service" yaml:"service"`
	Message  string   `json:"message" yaml:"message"`
}

// Fatal constructs a fatal issue.
func Fatal(code Code, service, message string) Issue {
	return Issue{Severity: SeverityFatal, Code: code, Service: service, Message: message}
}

// Warning constructs an advisory issue.
func Warning(code Code, service, message string) Issue {
	return Issue{Severity: SeverityWarning, Code: code, Service: service, Message: message}
}

// Report is the merged outcome of one resolution run. StartupOrder is nil
// whenever Fatal is non-empty: an invalid configuration never receives a
// partial order.
type Report struct {
	Fatal        []Issue  `json:"fatal" yaml:"fatal"`
	Warnings     []Issue  `json:"warnings" yaml:"warnings"`
	StartupOrder []string `json:"startupOrder" yaml:"startupOrder"`
}

// Aggregate merges all issues with a candidate startup order into a Report.
// Issues keep their given order, so callers control determinism by emitting
// them deterministically. The order is discarded if any issue is fatal.
func Aggregate(order []string, issues []Issue) Report {
	var rep Report
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityFatal:
			rep.Fatal = append(rep.Fatal, issue)
		default:
			rep.Warnings = append(rep.Warnings, issue)
		}
	}
	if len(rep.Fatal) == 0 {
		rep.StartupOrder = order
	}
	return rep
}

// Ok reports whether the configuration may be activated.
func (r Report) Ok() bool {
	return len(r.Fatal) == 0
}
