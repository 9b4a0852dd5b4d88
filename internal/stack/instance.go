package stack

// Mode distinguishes development from production configurations. Several
// validation warnings key off it.
type Mode string

const (
	ModeDev  Mode = "dev"
	ModeProd Mode = "prod"
)

// Database describes a service's database connection, when it has one.
type Database struct {
	Kind         string `yaml:"kind" json:"kind"`
	Host         string `yaml:"host,omitempty" json:"host,omitempty"`
	User         string `yaml:"user,omitempty" json:"user,omitempty"`
	PasswordFile string `yaml:"passwordFile,omitempty" json:"passwordFile,omitempty"`
}

// SSL describes a service's TLS settings. Either an ACME host or a
// certificate/key pair must be present when Enabled is true; the validator
// enforces that. Certificate issuance itself happens downstream.
type SSL struct {
	Enabled        bool   `yaml:"enabled" json:"enabled"`
	Certificate    string `yaml:"certificate,omitempty" json:"certificate,omitempty"`
	CertificateKey string `yaml:"certificateKey,omitempty" json:"certificateKey,omitempty"`
	ACMEHost       string `yaml:"acmeHost,omitempty" json:"acmeHost,omitempty"`
}

// Instance is one enabled service in the current configuration: the
// user-supplied runtime settings for a service the catalog knows by name.
// Instances are created at load time and read-only thereafter.
type Instance struct {
	Name    string `yaml:"name" json:"name"`
	Port    int    `yaml:"port" json:"port"`
	DataDir string `yaml:"dataDir" json:"dataDir"`
	Domain  string `yaml:"domain,omitempty" json:"domain,omitempty"`

	Database *Database `yaml:"database,omitempty" json:"database,omitempty"`
	SSL      *SSL      `yaml:"ssl,omitempty" json:"ssl,omitempty"`
	Mode     Mode      `yaml:"mode" json:"mode"`

	// AllowPrivilegedPorts grants this instance ports 80 and 443. Any other
	// port below 1024 stays out of range even with the grant.
	AllowPrivilegedPorts bool `yaml:"allowPrivilegedPorts,omitempty" json:"allowPrivilegedPorts,omitempty"`
}
