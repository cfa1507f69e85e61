package langsrv_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan/tyc/internal/langsrv"
)

func TestServeParsesValidModuleAndCachesIt(t *testing.T) {
	s := langsrv.NewServer(4)

	reqs := []langsrv.Request{
		{ID: 1, Path: "a.ty", Text: "fn add(a: i32, b: i32) -> i32 { return a + b; }"},
	}
	var in bytes.Buffer
	enc := json.NewEncoder(&in)
	for _, r := range reqs {
		require.NoError(t, enc.Encode(r))
	}

	var out bytes.Buffer
	require.NoError(t, s.Serve(&in, &out))

	var resp langsrv.Response
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &resp))
	assert.Equal(t, 1, resp.ID)
	assert.True(t, resp.OK)
	assert.Empty(t, resp.Errors)

	info, ok := s.Module("a.ty")
	require.True(t, ok)
	require.NotNil(t, info.Module)
	assert.Len(t, info.Module.Items(), 1)
}

func TestServeReportsParseErrorsWithoutCaching(t *testing.T) {
	s := langsrv.NewServer(4)

	var in bytes.Buffer
	require.NoError(t, json.NewEncoder(&in).Encode(langsrv.Request{ID: 2, Path: "bad.ty", Text: "fn ("}))

	var out bytes.Buffer
	require.NoError(t, s.Serve(&in, &out))

	var resp langsrv.Response
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &resp))
	assert.False(t, resp.OK)
	assert.NotEmpty(t, resp.Errors)

	_, ok := s.Module("bad.ty")
	assert.False(t, ok)
}

func TestServeHandlesMultipleRequestsInOrderPerPath(t *testing.T) {
	s := langsrv.NewServer(4)

	lines := []string{
		`{"id":1,"path":"a.ty","text":"fn f() -> i32 { return 1; }"}`,
		`{"id":2,"path":"b.ty","text":"fn g() -> i32 { return 2; }"}`,
	}
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")

	var out bytes.Buffer
	require.NoError(t, s.Serve(in, &out))

	dec := json.NewDecoder(&out)
	var got []langsrv.Response
	for dec.More() {
		var r langsrv.Response
		require.NoError(t, dec.Decode(&r))
		got = append(got, r)
	}
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, "a.ty", got[0].Path)
	assert.Equal(t, 2, got[1].ID)
	assert.Equal(t, "b.ty", got[1].Path)

	_, aOK := s.Module("a.ty")
	_, bOK := s.Module("b.ty")
	assert.True(t, aOK)
	assert.True(t, bOK)
}
