package common

import (
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Names of environment variables overriding defaults.
const (
	EnvProfile      = "WID_PROFILE"
	EnvProfileStore = "WID_PROFILE_STORE"
	EnvSessionDir   = "WID_SESSION_DIR"
	EnvWidEnv       = "WID_ENV"
	EnvLogLevel     = "WID_LOG_LEVEL"
)

type CommonFlags struct {
	Profile      string `flag:"profile" help:"profile name to use"`
	ProfileStore string `flag:"profile-store" help:"path to profile store file"`
	SessionDir   string `flag:"session-dir" help:"directory where signed-in sessions are stored"`
	Env          string `flag:"env" help:"path to widenv file"`
}

// SessionPath returns the directory of the session for the profile.
func (cf CommonFlags) SessionPath() string {
	return filepath.Join(cf.SessionDir, url.PathEscape(cf.Profile))
}

type commonFlagDetection struct {
	home   string
	getenv func(string) string
}

type CommonFlagDetectionOption func(*commonFlagDetection) *commonFlagDetection

func WithHome(home string) CommonFlagDetectionOption {
	return func(opt *commonFlagDetection) *commonFlagDetection {
		opt.home = home
		return opt
	}
}

// WithGetenv replaces the lookup of environment variables.
func WithGetenv(getenv func(string) string) CommonFlagDetectionOption {
	return func(opt *commonFlagDetection) *commonFlagDetection {
		opt.getenv = getenv
		return opt
	}
}

// Flags detects default values of common flags for the directory `from`.
//
// ".widprofile" and "widenv" are searched in `from` and its ancestors.
// The first line of ".widprofile" is the profile name. Without it, the
// absolute path of `from` is the profile name.
//
// Environment variables WID_PROFILE, WID_PROFILE_STORE, WID_SESSION_DIR and
// WID_ENV take precedence over detected values.
func Flags(from string, opt ...CommonFlagDetectionOption) (CommonFlags, error) {
	detparam := commonFlagDetection{home: "", getenv: os.Getenv}
	for _, o := range opt {
		detparam = *o(&detparam)
	}

	home := detparam.home
	if home == "" {
		if h, err := os.UserHomeDir(); err == nil {
			home = h
		}
	}

	if abs, err := filepath.Abs(from); err == nil {
		from = abs
	}

	profile := from
	env := path.Join(from, "widenv")

	profileFound := false
	envFound := false
	for searchpath := from; !(profileFound && envFound); {
		if !profileFound {
			candidate := path.Join(searchpath, ".widprofile")
			if s, err := os.Stat(candidate); err == nil && s.Mode().IsRegular() {
				content, err := os.ReadFile(candidate)
				if err != nil {
					return CommonFlags{}, err
				}
				profileFound = true
				if name := strings.TrimSpace(strings.SplitN(string(content), "\n", 2)[0]); name != "" {
					profile = name
				}
			}
		}
		if !envFound {
			candidate := path.Join(searchpath, "widenv")
			if s, err := os.Stat(candidate); err == nil && s.Mode().IsRegular() {
				envFound = true
				env = candidate
			}
		}

		next := path.Dir(searchpath)
		if next == searchpath {
			break
		}
		searchpath = next
	}

	cf := CommonFlags{
		Profile:      profile,
		ProfileStore: path.Join(home, ".wid", "profile"),
		SessionDir:   path.Join(home, ".wid", "session"),
		Env:          env,
	}

	for name, dest := range map[string]*string{
		EnvProfile:      &cf.Profile,
		EnvProfileStore: &cf.ProfileStore,
		EnvSessionDir:   &cf.SessionDir,
		EnvWidEnv:       &cf.Env,
	} {
		if v := detparam.getenv(name); v != "" {
			*dest = v
		}
	}
	return cf, nil
}
