// Package config decodes the on-disk deployment description (the
// `ships` / `registries` / `services` / `schema` document) and builds
// it into an *entities.Graph.
package config

// File is the post-parse shape of a whole deployment document: the
// direct YAML-unmarshal target, before any cross-reference validation
// happens in Build.
type File struct {
	// Name identifies the environment this document describes; it seeds
	// every container's MAESTRO_ENVIRONMENT_NAME variable. Defaults to
	// "local" when absent.
	Name       string                    `yaml:"name"`
	Ships      map[string]ShipConfig     `yaml:"ships"`
	Registries map[string]RegistryConfig `yaml:"registries"`
	Services   map[string]ServiceConfig  `yaml:"services"`
	Schema     SchemaConfig              `yaml:"schema"`
}

// SSHTunnelConfig is the raw `ssh_tunnel` block of a ship entry.
type SSHTunnelConfig struct {
	User string `yaml:"user"`
	Key  string `yaml:"key"`
	Port int    `yaml:"port"`
}

// ShipConfig is the raw `ships.<name>` entry.
type ShipConfig struct {
	IP         string           `yaml:"ip"`
	Endpoint   string           `yaml:"endpoint"`
	DockerPort int              `yaml:"docker_port"`
	SocketPath string           `yaml:"socket_path"`
	Timeout    int              `yaml:"timeout"`
	SSHTunnel  *SSHTunnelConfig `yaml:"ssh_tunnel"`

	TLS        bool   `yaml:"tls"`
	TLSVerify  bool   `yaml:"tls_verify"`
	TLSCACert  string `yaml:"tls_ca_cert"`
	TLSCert    string `yaml:"tls_cert"`
	TLSKey     string `yaml:"tls_key"`
	SSLVersion string `yaml:"ssl_version"`
}

// RegistryConfig is the raw `registries.<name>` entry.
type RegistryConfig struct {
	Registry string `yaml:"registry"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Email    string `yaml:"email"`
}

// LimitsConfig is the raw `limits` block of an instance entry.
type LimitsConfig struct {
	CPU    int64  `yaml:"cpu"`
	Memory string `yaml:"memory"`
	Swap   string `yaml:"swap"`
}

// InstanceConfig is the raw `services.<name>.instances.<name>` entry.
type InstanceConfig struct {
	Ship             string                              `yaml:"ship"`
	Image            string                              `yaml:"image"`
	Command          []string                            `yaml:"command"`
	Ports            map[string]interface{}              `yaml:"ports"`
	Env              map[string]interface{}              `yaml:"env"`
	Volumes          map[string]interface{}              `yaml:"volumes"`
	ContainerVolumes []string                            `yaml:"container_volumes"`
	VolumesFrom      []string                            `yaml:"volumes_from"`
	Links            map[string]string                   `yaml:"links"`
	Privileged       bool                                `yaml:"privileged"`
	Net              string                              `yaml:"net"`
	PID              string                              `yaml:"pid"`
	Restart          interface{}                         `yaml:"restart"`
	DNS              []string                            `yaml:"dns"`
	StopTimeout      int                                 `yaml:"stop_timeout"`
	Limits           LimitsConfig                        `yaml:"limits"`
	Workdir          string                              `yaml:"workdir"`
	Lifecycle        map[string][]map[string]interface{} `yaml:"lifecycle"`
}

// ServiceConfig is the raw `services.<name>` entry.
type ServiceConfig struct {
	Image     string                    `yaml:"image"`
	Omit      bool                      `yaml:"omit"`
	Env       map[string]interface{}    `yaml:"env"`
	Requires  []string                  `yaml:"requires"`
	WantsInfo []string                  `yaml:"wants_info"`
	Instances map[string]InstanceConfig `yaml:"instances"`
}

// SchemaConfig is the raw `schema` block.
type SchemaConfig struct {
	Schema int `yaml:"schema"`
}
