package profiles

import (
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/opst/writerid/cmd/wid/config/open"
	yaml "gopkg.in/yaml.v3"
)

var ErrProfileStoreNotFound = errors.New("profile store is not found")
var ErrCannotUpdateConfig = errors.New("cannot update profile store")
var ErrProfileInvalid = errors.New("profile is invalid")

// ProfileStore maps profile names to Profile.
type ProfileStore map[string]*Profile

type Cert struct {
	// base64 encoded CA certificate
	CA string `yaml:"ca,omitempty"`
}

// Profile tells where the writer identification API is.
type Profile struct {
	// base URL of the API, like "https://writerid.example.com"
	ApiRoot string `yaml:"apiRoot"`

	Cert Cert `yaml:"cert,omitempty"`
}

func verifyUrl(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs() && (u.Scheme == "http" || u.Scheme == "https")
}

func verifyPEM(b64cert string) bool {
	bin, err := base64.StdEncoding.DecodeString(b64cert)
	if err != nil {
		return false
	}
	blk, _ := pem.Decode(bin)
	return blk != nil
}

// Verify Profile
//
// # Return
//
// nil if it is valid. Otherwise, ErrProfileInvalid error.
func (p *Profile) Verify() error {
	if p == nil {
		return fmt.Errorf("%w: empty profile", ErrProfileInvalid)
	}
	if !verifyUrl(p.ApiRoot) {
		return fmt.Errorf("%w: apiRoot is not http(s) URL: %s", ErrProfileInvalid, p.ApiRoot)
	}
	if p.Cert.CA != "" && !verifyPEM(p.Cert.CA) {
		return fmt.Errorf("%w: cert.ca is not PEM", ErrProfileInvalid)
	}
	return nil
}

// LoadProfileStore loads profile store from file.
func LoadProfileStore(filepath string) (ProfileStore, error) {
	buf, err := os.ReadFile(filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrProfileStoreNotFound, filepath)
		}
		return nil, err
	}
	return Unmarshall(buf)
}

// Unmarshall profile store from yaml in byte array.
func Unmarshall(buf []byte) (ProfileStore, error) {
	ret := ProfileStore{}
	if err := yaml.Unmarshal(buf, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Save profile store to file.
//
// The previous content is kept as "<path>.backup" until the new one is written.
func (ps ProfileStore) Save(path string) error {
	buf, err := yaml.Marshal(ps)
	if err != nil {
		return err
	}

	bkpath := path + ".backup"
	old, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := open.WriteFile(bkpath, old); err != nil {
			return fmt.Errorf("%w: cannot write backup at %s: %w", ErrCannotUpdateConfig, bkpath, err)
		}
	case os.IsNotExist(err):
		// nothing to back up.
	case os.IsPermission(err):
		return fmt.Errorf("%w, because no permission to read file at %s", ErrCannotUpdateConfig, path)
	default:
		return err
	}

	if err := open.WriteFile(path, buf); err != nil {
		return fmt.Errorf("%w: %w", ErrCannotUpdateConfig, err)
	}
	os.Remove(bkpath)
	return nil
}
