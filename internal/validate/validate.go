package validate

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"convoy/internal/report"
	"convoy/internal/stack"
)

const (
	portMin = 1024
	portMax = 65535
)

// domainPattern requires at least one label, a dot, and a 2+ letter TLD,
// restricted to alphanumerics, hyphens and dots. Labels may not start or end
// with a hyphen.
var domainPattern = regexp.MustCompile(
	`^([a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

// defaultDomains are placeholder domains shipped in example configurations.
// Leaving one in place is almost always an oversight.
var defaultDomains = map[string]bool{
	"example.com": true,
	"example.org": true,
	"example.net": true,
	"domain.tld":  true,
}

// localSuffixes mark domains that clearly target a development machine.
var localSuffixes = []string{".localhost", ".local", ".test", ".example"}

// Validate runs every cross-service check over the full enabled set and
// returns all issues found. It is independent of the dependency graph, runs
// each check over every instance (or pair, for the uniqueness checks), and
// never stops at the first violation, so a single fix-and-retry cycle can
// address everything at once.
func Validate(instances []stack.Instance) []report.Issue {
	var issues []report.Issue
	issues = append(issues, checkPorts(instances)...)
	issues = append(issues, checkDataDirs(instances)...)
	issues = append(issues, checkDomains(instances)...)
	issues = append(issues, checkDatabases(instances)...)
	issues = append(issues, checkSSL(instances)...)
	return issues
}

// checkPorts enforces the port range and port uniqueness. Ports below 1024
// are reserved; 80 and 443 are the one named exception and only when the
// instance carries the explicit privileged-ports grant.
func checkPorts(instances []stack.Instance) []report.Issue {
	var issues []report.Issue
	for _, inst := range instances {
		switch {
		case inst.Port >= portMin && inst.Port <= portMax:
		case (inst.Port == 80 || inst.Port == 443) && inst.AllowPrivilegedPorts:
		case inst.Port == 80 || inst.Port == 443:
			issues = append(issues, report.Fatal(report.CodePortOutOfRange, inst.Name,
				fmt.Sprintf("port %d requires the allowPrivilegedPorts grant", inst.Port)))
		default:
			issues = append(issues, report.Fatal(report.CodePortOutOfRange, inst.Name,
				fmt.Sprintf("port %d is outside the allowed range [%d, %d]", inst.Port, portMin, portMax)))
		}
	}
	for i, a := range instances {
		for _, b := range instances[i+1:] {
			if a.Port == b.Port {
				issues = append(issues, report.Fatal(report.CodePortCollision, a.Name,
					fmt.Sprintf("services %q and %q both declare port %d", a.Name, b.Name, a.Port)))
			}
		}
	}
	return issues
}

func checkDataDirs(instances []stack.Instance) []report.Issue {
	var issues []report.Issue
	for i, a := range instances {
		for _, b := range instances[i+1:] {
			if a.DataDir != "" && filepath.Clean(a.DataDir) == filepath.Clean(b.DataDir) {
				issues = append(issues, report.Fatal(report.CodeDataDirCollision, a.Name,
					fmt.Sprintf("services %q and %q both declare data directory %s", a.Name, b.Name, filepath.Clean(a.DataDir))))
			}
		}
	}
	return issues
}

func checkDomains(instances []stack.Instance) []report.Issue {
	var issues []report.Issue
	for _, inst := range instances {
		if inst.Domain == "" {
			continue
		}
		if !domainPattern.MatchString(inst.Domain) {
			issues = append(issues, report.Fatal(report.CodeInvalidDomainFormat, inst.Name,
				fmt.Sprintf("domain %q is not a valid domain name", inst.Domain)))
			continue
		}
		if defaultDomains[strings.ToLower(inst.Domain)] {
			issues = append(issues, report.Warning(report.CodeDefaultDomainUnchanged, inst.Name,
				fmt.Sprintf("domain %q looks like an unchanged placeholder", inst.Domain)))
		}
		if inst.Mode == stack.ModeDev && prodLikeDomain(inst.Domain) {
			issues = append(issues, report.Warning(report.CodeDevModeWithProdLikeDomain, inst.Name,
				fmt.Sprintf("dev mode with production-like domain %q", inst.Domain)))
		}
	}
	return issues
}

// prodLikeDomain reports whether a domain looks like a real public name
// rather than a development placeholder.
func prodLikeDomain(domain string) bool {
	lower := strings.ToLower(domain)
	if defaultDomains[lower] {
		return false
	}
	for _, suffix := range localSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return false
		}
	}
	return true
}

func checkDatabases(instances []stack.Instance) []report.Issue {
	var issues []report.Issue
	for _, inst := range instances {
		db := inst.Database
		if db == nil {
			continue
		}
		if (db.Kind == "mysql" || db.Kind == "postgres") && db.PasswordFile == "" {
			issues = append(issues, report.Fatal(report.CodeMissingDatabaseCredential, inst.Name,
				fmt.Sprintf("%s database has no passwordFile configured", db.Kind)))
		}
		if db.Host != "" && !localHost(db.Host) {
			issues = append(issues, report.Warning(report.CodeUnencryptedDatabaseLink, inst.Name,
				fmt.Sprintf("database connection to remote host %q is unencrypted", db.Host)))
		}
	}
	return issues
}

// localHost reports whether a database host stays on the local machine,
// including unix socket paths.
func localHost(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1" ||
		strings.HasPrefix(host, "/")
}

func checkSSL(instances []stack.Instance) []report.Issue {
	var issues []report.Issue
	for _, inst := range instances {
		ssl := inst.SSL
		if ssl != nil && ssl.Enabled {
			if ssl.ACMEHost == "" && (ssl.Certificate == "" || ssl.CertificateKey == "") {
				issues = append(issues, report.Fatal(report.CodeInconsistentSslConfig, inst.Name,
					"ssl enabled without acmeHost and without a certificate/key pair"))
			}
		}
		if inst.Mode == stack.ModeProd && (ssl == nil || !ssl.Enabled) {
			issues = append(issues, report.Warning(report.CodeSslDisabledInProd, inst.Name,
				"ssl is disabled for a service in prod mode"))
		}
	}
	return issues
}
