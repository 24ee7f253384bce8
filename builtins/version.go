package builtins

import (
	"fmt"
	"sync"

	semver "github.com/Masterminds/semver/v3"
)

// SupportedTables is the range of generated table versions this package can
// consume. A major version bump means the hash layout changed.
const SupportedTables = ">= 1.2, < 2"

var tablesCheck = sync.OnceValue(func() error {
	v, err := semver.NewVersion(TablesVersion)
	if err != nil {
		return fmt.Errorf("builtins: malformed tables version %q: %w", TablesVersion, err)
	}
	return checkVersion(v, SupportedTables)
})

// CheckTablesVersion reports whether the generated tables compiled into this
// package satisfy SupportedTables. The result is computed once.
func CheckTablesVersion() error {
	return tablesCheck()
}

// TablesSemver returns the parsed version of the generated tables.
func TablesSemver() (*semver.Version, error) {
	return semver.NewVersion(TablesVersion)
}

func checkVersion(v *semver.Version, constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("builtins: invalid constraint %q: %w", constraint, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("builtins: tables version %s does not satisfy %s; regenerate the tables", v, constraint)
	}
	return nil
}
