package config

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/structgraph"
	"os"
	"path/filepath"
	"testing"
)

type Item struct {
	ItemName string
	Parts    []*Item
	Parent   *Item
}

func TestLoad(t *testing.T) {
	var testCases = []struct {
		description string
		content     string
		env         map[string]string
		expect      *Config
		expectErr   bool
	}{
		{
			description: "defaults",
			expect:      &Config{TagName: "json", MaxDepth: structgraph.DefaultMaxDepth},
		},
		{
			description: "config file",
			content:     "tag_name: yaml\ncase_format: lowerUnderscore\nmax_depth: 20\nnil_slice_as_empty: true\ntime_layout: \"2006-01-02\"\n",
			expect:      &Config{TagName: "yaml", CaseFormat: "lowerUnderscore", MaxDepth: 20, NilSliceAsEmpty: true, TimeLayout: "2006-01-02"},
		},
		{
			description: "environment override",
			content:     "max_depth: 20\n",
			env:         map[string]string{"STRUCTGRAPH_MAX_DEPTH": "30", "STRUCTGRAPH_DEBUG": "true"},
			expect:      &Config{TagName: "json", MaxDepth: 30, Debug: true},
		},
		{
			description: "invalid case format",
			content:     "case_format: zigzag\n",
			expectErr:   true,
		},
	}

	for _, testCase := range testCases {
		for key, value := range testCase.env {
			t.Setenv(key, value)
		}
		path := ""
		if testCase.content != "" {
			path = filepath.Join(t.TempDir(), "structgraph.yaml")
			require.Nil(t, os.WriteFile(path, []byte(testCase.content), 0644), testCase.description)
		}
		actual, err := Load(path)
		for key := range testCase.env {
			os.Unsetenv(key)
		}
		if testCase.expectErr {
			assert.NotNil(t, err, testCase.description)
			continue
		}
		require.Nil(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotNil(t, err)
}

func TestConfig_Options(t *testing.T) {
	cfg := &Config{TagName: "json", CaseFormat: "lowerUnderscore", NilSliceAsEmpty: true}
	opts, err := cfg.Options()
	require.Nil(t, err)

	root := &Item{ItemName: "root"}
	root.Parts = []*Item{{ItemName: "leaf", Parent: root}}

	actual, err := structgraph.ToPlain(root, opts...)
	require.Nil(t, err)
	assert.Equal(t, map[string]interface{}{
		"item_name": "root",
		"parent":    nil,
		"parts": []interface{}{
			map[string]interface{}{"item_name": "leaf", "parts": []interface{}{}},
		},
	}, actual)
}
