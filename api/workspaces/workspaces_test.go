package workspaces_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridvolt/gpucloud-go/api/workspaces"
	"github.com/gridvolt/gpucloud-go/transport"
)

func TestUpdateOmitsUnsetFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/workspaces/5", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "ml-platform", body["name"])
		_, hasDescription := body["description"]
		require.False(t, hasDescription)

		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{"id": 5, "name": "ml-platform", "description": "unchanged"},
		})
	}))
	defer srv.Close()

	c := workspaces.New(transport.NewClient(srv.URL))
	name := "ml-platform"
	ws, err := c.Update(context.Background(), 5, workspaces.UpdateRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "ml-platform", ws.Name)
	require.Equal(t, "unchanged", ws.Description)
}

func TestMemberPathsAndPayload(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotBody = nil
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&gotBody)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{"id": 31, "workspace_id": 5, "customer_id": 12, "role": "member"},
		})
	}))
	defer srv.Close()

	c := workspaces.New(transport.NewClient(srv.URL))

	m, err := c.AddMember(context.Background(), 5, workspaces.AddMemberRequest{UserID: 12, Role: workspaces.RoleMember})
	require.NoError(t, err)
	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "/workspaces/5/members", gotPath)
	require.EqualValues(t, 12, gotBody["user_id"])
	require.Equal(t, workspaces.RoleMember, gotBody["role"])
	require.EqualValues(t, 31, m.ID)

	require.NoError(t, c.RemoveMember(context.Background(), 5, 31))
	require.Equal(t, http.MethodDelete, gotMethod)
	require.Equal(t, "/workspaces/5/members/31", gotPath)
}
