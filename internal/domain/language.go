package domain

import (
	"sort"
	"strings"
)

// Language is a programming language the generator can target.
type Language string

// Supported languages.
const (
	LanguagePython     Language = "Python"
	LanguageJavaScript Language = "JavaScript"
	LanguageTypeScript Language = "TypeScript"
	LanguageJava       Language = "Java"
	LanguageGo         Language = "Go"
	LanguageRust       Language = "Rust"
)

// LanguageProfile holds the reference data used to enrich prompts and to
// describe a language to clients.
type LanguageProfile struct {
	Extension  string   `json:"extension"`
	CommonUses []string `json:"common_uses"`
	Frameworks []string `json:"frameworks"`
}

// Profiles is a read-only table of language profiles. It is built once at
// startup and passed to the components that need it.
type Profiles struct {
	byLanguage map[Language]LanguageProfile
	order      []Language
}

// DefaultProfiles returns the built-in language table.
func DefaultProfiles() Profiles {
	return NewProfiles(map[Language]LanguageProfile{
		LanguagePython: {
			Extension:  ".py",
			CommonUses: []string{"Data Science", "Web Development", "Automation", "AI/ML"},
			Frameworks: []string{"Django", "Flask", "FastAPI", "TensorFlow", "PyTorch"},
		},
		LanguageJavaScript: {
			Extension:  ".js",
			CommonUses: []string{"Web Frontend", "Backend (Node.js)", "Mobile Apps", "Browser Extensions"},
			Frameworks: []string{"React", "Vue.js", "Angular", "Express.js", "Next.js"},
		},
		LanguageTypeScript: {
			Extension:  ".ts",
			CommonUses: []string{"Enterprise Apps", "Large-scale Web Apps", "Type-safe JavaScript"},
			Frameworks: []string{"Angular", "Next.js", "NestJS", "Deno"},
		},
		LanguageJava: {
			Extension:  ".java",
			CommonUses: []string{"Enterprise Software", "Android Apps", "Web Services"},
			Frameworks: []string{"Spring Boot", "Jakarta EE", "Android SDK"},
		},
		LanguageGo: {
			Extension:  ".go",
			CommonUses: []string{"Cloud Services", "System Tools", "Web Services"},
			Frameworks: []string{"Gin", "Echo", "Fiber"},
		},
		LanguageRust: {
			Extension:  ".rs",
			CommonUses: []string{"Systems Programming", "WebAssembly", "CLI Tools"},
			Frameworks: []string{"Rocket", "Actix", "Yew"},
		},
	})
}

// NewProfiles copies the given table into a Profiles value.
func NewProfiles(table map[Language]LanguageProfile) Profiles {
	p := Profiles{
		byLanguage: make(map[Language]LanguageProfile, len(table)),
		order:      make([]Language, 0, len(table)),
	}
	for lang, profile := range table {
		p.byLanguage[lang] = LanguageProfile{
			Extension:  profile.Extension,
			CommonUses: append([]string(nil), profile.CommonUses...),
			Frameworks: append([]string(nil), profile.Frameworks...),
		}
		p.order = append(p.order, lang)
	}
	sort.Slice(p.order, func(i, j int) bool { return p.order[i] < p.order[j] })
	return p
}

// Lookup returns a copy of the profile for lang.
func (p Profiles) Lookup(lang Language) (LanguageProfile, bool) {
	profile, ok := p.byLanguage[lang]
	if !ok {
		return LanguageProfile{}, false
	}
	return LanguageProfile{
		Extension:  profile.Extension,
		CommonUses: append([]string(nil), profile.CommonUses...),
		Frameworks: append([]string(nil), profile.Frameworks...),
	}, true
}

// Languages returns the languages in the table, sorted by name.
func (p Profiles) Languages() []Language {
	return append([]Language(nil), p.order...)
}

// Parse resolves a case-insensitive language name against the table.
func (p Profiles) Parse(name string) (Language, bool) {
	name = strings.TrimSpace(name)
	for _, lang := range p.order {
		if strings.EqualFold(string(lang), name) {
			return lang, true
		}
	}
	return "", false
}
