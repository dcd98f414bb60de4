package contract

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader is a pluggable contract source. Anything that can yield the raw
// contract model works: a manifest file, a code generator, a remote schema.
// Validation happens after loading and is independent of the mechanism.
type Loader interface {
	Load() (*Contract, error)
}

// FileLoader loads a contract from a YAML manifest on disk
type FileLoader struct {
	Path string
}

func (l *FileLoader) Load() (*Contract, error) {
	return LoadFile(l.Path)
}

// manifest mirrors the YAML document shape before conversion to the model
type manifest struct {
	Name           string              `yaml:"name"`
	Kind           string              `yaml:"kind"`
	Scheme         string              `yaml:"scheme"`
	Host           string              `yaml:"host"`
	Port           int                 `yaml:"port"`
	BasePath       string              `yaml:"basePath"`
	ConnectTimeout int64               `yaml:"connectTimeout"` // seconds
	Operations     []manifestOperation `yaml:"operations"`
}

type manifestOperation struct {
	Name     string           `yaml:"name"`
	Returns  string           `yaml:"returns"`
	Provided bool             `yaml:"provided"`
	Request  *manifestRequest `yaml:"request"`
	Params   []manifestParam  `yaml:"params"`
}

type manifestRequest struct {
	Verb        string `yaml:"verb"`
	Endpoint    string `yaml:"endpoint"`
	ReadTimeout int64  `yaml:"readTimeout"` // seconds
}

// manifestParam binds an argument slot via exactly one of the role keys
type manifestParam struct {
	Arg    string `yaml:"arg"`
	Type   string `yaml:"type"`
	Path   string `yaml:"path"`
	Query  string `yaml:"query"`
	Header string `yaml:"header"`
	Body   bool   `yaml:"body"`
	// Required defaults to true for query and header bindings
	Required *bool `yaml:"required"`
}

// LoadFile reads and parses a contract manifest from disk
func LoadFile(path string) (*Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest parses a YAML contract manifest. The document is checked
// against the manifest schema first so that shape defects are reported as an
// enumerated list rather than one unmarshal error at a time.
func ParseManifest(data []byte) (*Contract, error) {
	if err := checkManifestSchema(data); err != nil {
		return nil, err
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return m.toContract(), nil
}

func (m *manifest) toContract() *Contract {
	c := &Contract{
		Name:                  m.Name,
		Kind:                  Kind(m.Kind),
		Scheme:                Scheme(m.Scheme),
		Host:                  m.Host,
		Port:                  m.Port,
		BasePath:              m.BasePath,
		ConnectTimeoutSeconds: m.ConnectTimeout,
	}
	if c.Kind == "" {
		c.Kind = KindInterface
	}
	if c.Scheme == "" {
		c.Scheme = SchemeHTTP
	}
	if c.ConnectTimeoutSeconds == 0 {
		c.ConnectTimeoutSeconds = DefaultConnectTimeoutSeconds
	}

	for _, mo := range m.Operations {
		op := Operation{
			Name:     mo.Name,
			Returns:  mo.Returns,
			Provided: mo.Provided,
		}
		if mo.Request != nil {
			readTimeout := mo.Request.ReadTimeout
			if readTimeout == 0 {
				readTimeout = DefaultReadTimeoutSeconds
			}
			verb := mo.Request.Verb
			if verb == "" {
				verb = string(VerbGet)
			}
			op.Request = &RequestSpec{
				Verb:               Verb(verb),
				Endpoint:           mo.Request.Endpoint,
				ReadTimeoutSeconds: readTimeout,
			}
		}
		for _, mp := range mo.Params {
			op.Params = append(op.Params, mp.toParam())
		}
		c.Operations = append(c.Operations, op)
	}
	return c
}

func (mp *manifestParam) toParam() Param {
	p := Param{
		Arg:      mp.Arg,
		Type:     mp.Type,
		Required: true,
	}
	if mp.Required != nil {
		p.Required = *mp.Required
	}
	switch {
	case mp.Body:
		p.Role = RoleBody
	case mp.Path != "":
		p.Role = RolePath
		p.Name = mp.Path
	case mp.Query != "":
		p.Role = RoleQuery
		p.Name = mp.Query
	case mp.Header != "":
		p.Role = RoleHeader
		p.Name = mp.Header
	}
	if p.Type == "" {
		p.Type = "string"
	}
	return p
}
