package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// RouteTable is the access policy configuration consumed by the navigation guard.
type RouteTable struct {
	Landing Landing      `yaml:"landing"`
	Routes  []RouteEntry `yaml:"routes" validate:"dive"`
}

// Landing names the redirect targets used by the guard.
type Landing struct {
	Login   string `yaml:"login" validate:"required,startswith=/"`
	Admin   string `yaml:"admin" validate:"required,startswith=/"`
	Catalog string `yaml:"catalog" validate:"required,startswith=/"`
}

type RouteEntry struct {
	Path string `yaml:"path" validate:"required,startswith=/"`
	Tier string `yaml:"tier" validate:"required,oneof=public customer-only admin-only public-authenticated-redirect"`
	// Exact disables prefix matching for this entry.
	Exact bool `yaml:"exact"`
}

// DefaultRoutes mirrors the storefront's built-in route policy.
func DefaultRoutes() RouteTable {
	return RouteTable{
		Landing: Landing{Login: "/login", Admin: "/admin", Catalog: "/"},
		Routes: []RouteEntry{
			{Path: "/cart", Tier: "customer-only"},
			{Path: "/orders", Tier: "customer-only"},
			{Path: "/checkout", Tier: "customer-only"},
			{Path: "/admin", Tier: "admin-only"},
			{Path: "/login", Tier: "public-authenticated-redirect", Exact: true},
			{Path: "/register", Tier: "public-authenticated-redirect", Exact: true},
			{Path: "/reset-password", Tier: "public-authenticated-redirect", Exact: true},
		},
	}
}

// LoadRoutes reads a YAML route table. An empty path returns DefaultRoutes.
// Landing targets missing from the file fall back to the defaults.
func LoadRoutes(path string) (RouteTable, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultRoutes(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return RouteTable{}, fmt.Errorf("read routes file: %w", err)
	}
	return ParseRoutes(raw)
}

// ParseRoutes decodes and validates a YAML route table.
func ParseRoutes(raw []byte) (RouteTable, error) {
	var table RouteTable
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&table); err != nil {
		return RouteTable{}, fmt.Errorf("decode routes: %w", err)
	}
	defaults := DefaultRoutes().Landing
	if table.Landing.Login == "" {
		table.Landing.Login = defaults.Login
	}
	if table.Landing.Admin == "" {
		table.Landing.Admin = defaults.Admin
	}
	if table.Landing.Catalog == "" {
		table.Landing.Catalog = defaults.Catalog
	}
	if err := validator.New().Struct(table); err != nil {
		return RouteTable{}, fmt.Errorf("validate routes: %w", err)
	}
	return table, nil
}
