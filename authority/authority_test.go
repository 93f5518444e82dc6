package authority_test

import (
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/thresholdvote/core/authority"
)

func TestLoadGeneratesEphemeralInDevMode(t *testing.T) {
	c := qt.New(t)

	a, err := authority.Load("", true)
	c.Assert(err, qt.IsNil)
	c.Assert(a.PrivateKey, qt.IsNotNil)
}

func TestLoadRejectsMissingKeyOutsideDevMode(t *testing.T) {
	c := qt.New(t)

	_, err := authority.Load("", false)
	c.Assert(err, qt.IsNotNil)
}

func TestGenerateThenLoadRoundTrip(t *testing.T) {
	c := qt.New(t)

	keyPath := filepath.Join(t.TempDir(), "authority.pem")
	generated, err := authority.Generate(keyPath)
	c.Assert(err, qt.IsNil)

	loaded, err := authority.Load(keyPath, false)
	c.Assert(err, qt.IsNil)
	c.Assert(loaded.PrivateKey.D.Cmp(generated.PrivateKey.D), qt.Equals, 0)
}
