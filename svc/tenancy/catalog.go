package tenancy

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/permission"
)

//go:embed roles.yaml
var defaultCatalogYAML []byte

// RoleTemplate describes a system role before it is bound to an organization.
type RoleTemplate struct {
	Name        string   `yaml:"name"`
	DisplayName string   `yaml:"display_name"`
	Permissions []string `yaml:"permissions"`
}

// Catalog is the set of system roles seeded into new organizations.
type Catalog struct {
	DefaultRole string         `yaml:"default_role"`
	Roles       []RoleTemplate `yaml:"roles"`
}

// LoadCatalog decodes and validates a catalog from YAML.
func LoadCatalog(r io.Reader) (Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return Catalog{}, errors.Join(ErrInvalidCatalog, err)
	}
	if err := c.validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// DefaultCatalog returns the embedded system role catalog.
func DefaultCatalog() Catalog {
	c, err := LoadCatalog(bytes.NewReader(defaultCatalogYAML))
	if err != nil {
		panic(fmt.Sprintf("tenancy: embedded role catalog: %v", err))
	}
	return c
}

// Template returns the template with the given name.
func (c Catalog) Template(name string) (RoleTemplate, bool) {
	i := slices.IndexFunc(c.Roles, func(t RoleTemplate) bool { return t.Name == name })
	if i < 0 {
		return RoleTemplate{}, false
	}
	return c.Roles[i], true
}

func (c *Catalog) validate() error {
	seen := make(map[string]struct{}, len(c.Roles))
	for i, t := range c.Roles {
		if !ValidRoleName(t.Name) {
			return fmt.Errorf("%w: role name %q", ErrInvalidCatalog, t.Name)
		}
		if _, dup := seen[t.Name]; dup {
			return fmt.Errorf("%w: duplicate role %q", ErrInvalidCatalog, t.Name)
		}
		seen[t.Name] = struct{}{}

		perms, err := permission.ValidateAll(t.Permissions)
		if err != nil {
			return fmt.Errorf("%w: role %q: %w", ErrInvalidCatalog, t.Name, err)
		}
		c.Roles[i].Permissions = perms
		if t.DisplayName == "" {
			c.Roles[i].DisplayName = t.Name
		}
	}
	if _, ok := seen[RoleOwner]; !ok {
		return fmt.Errorf("%w: missing %q role", ErrInvalidCatalog, RoleOwner)
	}
	if _, ok := seen[c.DefaultRole]; !ok {
		return fmt.Errorf("%w: default role %q is not defined", ErrInvalidCatalog, c.DefaultRole)
	}
	return nil
}
