package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "xmlabc.yaml")
	err := os.WriteFile(path, []byte("unfold: true\nunit_length: 16\nvolta: 2\nout_dir: abc\n"), 0644)
	assert.Nil(err)

	opts, err := Load(path)
	assert.Nil(err)
	assert.Equal(Options{Unfold: true, UnitDen: 16, Volta: 2, OutDir: "abc"}, opts)

	opts, err = Load("")
	assert.Nil(err)
	assert.Equal(Options{}, opts)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotNil(err)
}

func TestValidate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	assert.Nil(t, os.WriteFile(file, nil, 0644))

	tests := []struct {
		opts  Options
		valid bool
	}{
		{Options{}, true},
		{Options{UnitDen: 512, CreditFilter: 6, Volta: 3, LineWidth: 80}, true},
		{Options{UnitDen: 12}, false},
		{Options{UnitDen: 1024}, false},
		{Options{LineWidth: -1}, false},
		{Options{CreditFilter: 7}, false},
		{Options{Volta: 4}, false},
		{Options{OutDir: file}, false},
		{Options{OutDir: filepath.Join(t.TempDir(), "new")}, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%+v", tt.opts), func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.valid {
				assert.Nil(t, err)
			} else {
				assert.NotNil(t, err)
			}
		})
	}
}
