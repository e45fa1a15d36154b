package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	store, err := NewConfigStore("")

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(home, ".alphy", "config.toml"), store.Path())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.model", "route-llm"))
	require.NoError(t, store.Set("chat.history_window", 20))
	require.NoError(t, store.Set("sheets.include_excel", true))
	require.NoError(t, store.Set("llm.temperature", 0.4))

	assert.Equal(t, "route-llm", store.GetString("llm.model"))
	assert.Equal(t, 20, store.GetInt("chat.history_window"))
	assert.True(t, store.GetBool("sheets.include_excel"))
	assert.InDelta(t, 0.4, store.GetFloat("llm.temperature"), 0.001)

	// Missing keys fall back to zero values.
	assert.Equal(t, "", store.GetString("nope"))
	assert.Equal(t, 0, store.GetInt("nope"))
	assert.False(t, store.GetBool("nope"))
	assert.Zero(t, store.GetFloat("nope"))

	// Wrong types fall back too.
	assert.Equal(t, 0, store.GetInt("llm.model"))
	assert.Equal(t, "", store.GetString("chat.history_window"))
}

func TestConfigStore_GetFloat_IntegerValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	// A temperature written as "1" arrives from TOML as an integer.
	store.mu.Lock()
	store.data["llm.temperature"] = int64(1)
	store.mu.Unlock()

	assert.InDelta(t, 1.0, store.GetFloat("llm.temperature"), 0.001)
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("llm.provider", "gemini"))
	require.NoError(t, store1.Set("sheets.max_results", 50))

	// A new store instance loads from the same file.
	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "gemini", store2.GetString("llm.provider"))
	assert.Equal(t, 50, store2.GetInt("sheets.max_results"))
}

func TestConfigStore_NestedTablesFlattened(t *testing.T) {
	tmpDir := t.TempDir()
	content := []byte("[llm]\nprovider = \"routellm\"\nmodel = \"route-llm\"\n\n[sheets]\nfolder_id = \"abc\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), content, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "routellm", store.GetString("llm.provider"))
	assert.Equal(t, "route-llm", store.GetString("llm.model"))
	assert.Equal(t, "abc", store.GetString("sheets.folder_id"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.api_key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestNewConfigStore_CorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"),
		[]byte("this is not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte{}, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	val, ok := store.Get("any_key")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := "key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.GetString(key)
			_, _ = store.Get(key)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
