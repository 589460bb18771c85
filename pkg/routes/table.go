// Package routes はビューのルート定義とロール別遷移先を提供する。
package routes

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/oyaguma3/hr-portal/pkg/guard"
	"github.com/oyaguma3/hr-portal/pkg/model"
	"github.com/oyaguma3/hr-portal/pkg/navigation"
	"gopkg.in/yaml.v3"
)

//go:embed default_routes.yaml
var defaultRoutes []byte

// ErrInvalidTable はルート定義が不正な場合のエラー
var ErrInvalidTable = errors.New("invalid route table")

// サーバーが予約しているパス。ビューには使えない。
const (
	PathHealth = "/health"
	PathAPI    = "/api"
)

// Route は1つのビュー定義。
type Route struct {
	Path      string       `yaml:"path"`
	View      string       `yaml:"view,omitempty"`
	Redirect  string       `yaml:"redirect,omitempty"`
	Protected bool         `yaml:"protected,omitempty"`
	Role      model.Role   `yaml:"role,omitempty"`
	Roles     []model.Role `yaml:"roles,omitempty"`
}

// Requirement はガードに渡すロール要件を返す。
func (r Route) Requirement() guard.Requirement {
	return guard.Requirement{Role: r.Role, Roles: r.Roles}
}

// Table はルート定義一式。
type Table struct {
	Routes  []Route               `yaml:"routes"`
	Landing map[model.Role]string `yaml:"landing"`

	byPath map[string]int
}

// Default は組み込みのルート定義を返す。
func Default() *Table {
	t, err := Parse(defaultRoutes)
	if err != nil {
		panic(fmt.Sprintf("embedded route table: %v", err))
	}
	return t
}

// Load はファイルからルート定義を読み込む。pathが空の場合は組み込み定義を返す。
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read route table: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse はYAMLからルート定義を生成し検証する。
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Table) validate() error {
	if len(t.Routes) == 0 {
		return fmt.Errorf("%w: no routes", ErrInvalidTable)
	}

	t.byPath = make(map[string]int, len(t.Routes))
	for i, r := range t.Routes {
		if !strings.HasPrefix(r.Path, "/") {
			return fmt.Errorf("%w: path %q must start with /", ErrInvalidTable, r.Path)
		}
		if strings.ContainsAny(r.Path, ":*") {
			return fmt.Errorf("%w: path %q must not contain parameters or wildcards", ErrInvalidTable, r.Path)
		}
		if reserved(r.Path) {
			return fmt.Errorf("%w: path %q is reserved", ErrInvalidTable, r.Path)
		}
		if _, dup := t.byPath[r.Path]; dup {
			return fmt.Errorf("%w: duplicate path %q", ErrInvalidTable, r.Path)
		}
		if (r.View == "") == (r.Redirect == "") {
			return fmt.Errorf("%w: %s must have exactly one of view or redirect", ErrInvalidTable, r.Path)
		}
		if !r.Protected && (r.Role != "" || r.Roles != nil) {
			return fmt.Errorf("%w: %s declares roles but is not protected", ErrInvalidTable, r.Path)
		}
		t.byPath[r.Path] = i
	}

	for _, r := range t.Routes {
		if r.Redirect == "" {
			continue
		}
		target, ok := t.Lookup(r.Redirect)
		if !ok || target.Redirect != "" {
			return fmt.Errorf("%w: %s redirects to unknown view %q", ErrInvalidTable, r.Path, r.Redirect)
		}
	}

	// ガードの拒否時の遷移先
	login, ok := t.Lookup(navigation.PathLogin)
	if !ok || login.View == "" || login.Protected {
		return fmt.Errorf("%w: %s must be a public view", ErrInvalidTable, navigation.PathLogin)
	}

	for role, path := range t.Landing {
		target, ok := t.Lookup(path)
		if !ok {
			return fmt.Errorf("%w: landing for %q points to unknown path %q", ErrInvalidTable, role, path)
		}
		if target.Redirect != "" {
			target, _ = t.Lookup(target.Redirect)
		}
		// 空の要件はポリシー次第のため実行時のガードに任せる
		if allowed := target.Requirement().Normalize(); target.Protected && len(allowed) > 0 && !slices.Contains(allowed, role) {
			return fmt.Errorf("%w: landing for %q points to %s which does not admit the role", ErrInvalidTable, role, path)
		}
	}
	return nil
}

func reserved(path string) bool {
	for _, p := range []string{PathHealth, PathAPI} {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Lookup はpathのルートを返す。
func (t *Table) Lookup(path string) (Route, bool) {
	i, ok := t.byPath[path]
	if !ok {
		return Route{}, false
	}
	return t.Routes[i], true
}

// LandingFor はロールのログイン後遷移先を返す。
func (t *Table) LandingFor(role model.Role) (string, bool) {
	path, ok := t.Landing[role]
	return path, ok
}

// Roles は遷移先が定義されたロールを名前順で返す。ログインフォームの選択肢に使う。
func (t *Table) Roles() []model.Role {
	roles := make([]model.Role, 0, len(t.Landing))
	for r := range t.Landing {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

// Views はビューを持つルートを定義順で返す。
func (t *Table) Views() []Route {
	views := make([]Route, 0, len(t.Routes))
	for _, r := range t.Routes {
		if r.View != "" {
			views = append(views, r)
		}
	}
	return views
}
