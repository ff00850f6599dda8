package domain

import (
	"github.com/damoang/angple-content/pkg/i18n"
	"github.com/damoang/angple-content/pkg/storage"
)

// Principal is the explicit request context handed to every service call in
// place of a global current user / current language.
type Principal struct {
	UserID  string
	Admin   bool
	Locale  i18n.Locale
	Storage storage.Permissions
}

// SystemPrincipal is used by the CLI and background jobs
func SystemPrincipal(locale i18n.Locale) Principal {
	return Principal{
		UserID:  "_cli_",
		Admin:   true,
		Locale:  locale,
		Storage: storage.AdminPermissions(),
	}
}
