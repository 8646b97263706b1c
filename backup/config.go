package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// DefaultConfigPath is used when no config file is given on the command line.
const DefaultConfigPath = "/usr/local/etc/backup-vm-wrapper.conf"

const (
	sectionMain  = "main"
	sectionDisks = "disks"

	keyBorgPath        = "borg_path"
	keyHealthchecksURL = "healthchecks_url"
	keyLibvirtSocket   = "libvirt_socket"
	keyReportPath      = "report_path"
)

// Config holds the settings of a backup run. It is loaded once and passed by
// value to every component.
type Config struct {
	BorgPath        string
	HealthchecksURL string
	LibvirtSocket   string
	ReportPath      string

	// Disks maps a lowercased domain name to the disk spec handed to backup-vm.
	Disks map[string]string
}

// LoadConfig reads the INI file at path. The returned error is always a
// *ConfigError.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return cfg, &ConfigError{Path: path, Err: ErrConfigNotFound}
	}

	// Option names are matched case-insensitively, domain names included.
	file, err := ini.LoadSources(ini.LoadOptions{InsensitiveKeys: true, IgnoreInlineComment: true}, path)
	if err != nil {
		return cfg, &ConfigError{Path: path, Err: fmt.Errorf("%w: %v", ErrConfigParse, err)}
	}

	mainSec, err := file.GetSection(sectionMain)
	if err != nil {
		return cfg, &ConfigError{Path: path, Err: fmt.Errorf("%w: [%s] section", ErrMissingKey, sectionMain)}
	}

	cfg.BorgPath = strings.TrimSpace(mainSec.Key(keyBorgPath).String())
	if cfg.BorgPath == "" {
		return cfg, &ConfigError{Path: path, Err: fmt.Errorf("%w: [%s] %s", ErrMissingKey, sectionMain, keyBorgPath)}
	}
	cfg.HealthchecksURL = strings.TrimSpace(mainSec.Key(keyHealthchecksURL).String())
	cfg.LibvirtSocket = strings.TrimSpace(mainSec.Key(keyLibvirtSocket).String())
	cfg.ReportPath = strings.TrimSpace(mainSec.Key(keyReportPath).String())

	cfg.Disks = map[string]string{}
	if disks, err := file.GetSection(sectionDisks); err == nil {
		for _, key := range disks.Keys() {
			cfg.Disks[strings.ToLower(key.Name())] = strings.TrimSpace(key.String())
		}
	}

	if info, err := os.Stat(cfg.BorgPath); err != nil || !info.IsDir() {
		return cfg, &ConfigError{Path: cfg.BorgPath, Err: ErrBorgPathNotDir}
	}

	return cfg, nil
}

// DiskSpec returns the disk override for domain, if one is configured.
func (c Config) DiskSpec(domain string) (string, bool) {
	spec, ok := c.Disks[strings.ToLower(domain)]
	return spec, ok
}

// RepoPath returns the borg repository directory of domain.
func (c Config) RepoPath(domain string) string {
	return filepath.Join(c.BorgPath, domain)
}

// IsConfigError reports whether err is, or wraps, a *ConfigError.
func IsConfigError(err error) bool {
	var cerr *ConfigError
	return errors.As(err, &cerr)
}
