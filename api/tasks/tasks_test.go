package tasks_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridvolt/gpucloud-go/api/tasks"
	"github.com/gridvolt/gpucloud-go/transport"
)

func TestListSendsPaginationAndFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/training/jobs", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "1", q.Get("page"))
		require.Equal(t, "10", q.Get("pageSize"))
		require.Equal(t, tasks.StatusRunning, q.Get("status"))
		require.Equal(t, "resnet", q.Get("keyword"))

		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{
				"list": []map[string]any{
					{"id": 3, "name": "resnet50-finetune", "image": "pytorch:2.4", "status": "running",
						"resources": map[string]any{"cpu": 8, "memory": 64, "gpu": 2}},
				},
				"total":    1,
				"page":     1,
				"pageSize": 10,
			},
		})
	}))
	defer srv.Close()

	c := tasks.New(transport.NewClient(srv.URL))
	page, err := c.List(context.Background(),
		transport.PageQuery{Page: 1, PageSize: 10},
		tasks.ListFilter{Status: tasks.StatusRunning, Keyword: "resnet"})
	require.NoError(t, err)

	require.EqualValues(t, 1, page.Total)
	require.Len(t, page.List, 1)
	require.Equal(t, "resnet50-finetune", page.List[0].Name)
	require.Equal(t, 2, page.List[0].Resources.GPU)
}

func TestCreateSendsJobSpec(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/training/jobs", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "llama-lora", body["name"])
		require.Equal(t, "pytorch:2.4", body["image"])
		require.Equal(t, "train.py", body["script"])
		require.Equal(t, []any{float64(7)}, body["datasets"])
		res := body["resources"].(map[string]any)
		require.EqualValues(t, 4, res["gpu"])
		require.Equal(t, map[string]any{"EPOCHS": "3"}, body["env_vars"])

		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{"id": 9, "name": "llama-lora", "image": "pytorch:2.4", "script": "train.py", "status": "pending"},
		})
	}))
	defer srv.Close()

	c := tasks.New(transport.NewClient(srv.URL))
	job, err := c.Create(context.Background(), tasks.CreateRequest{
		Name:       "llama-lora",
		Image:      "pytorch:2.4",
		Script:     "train.py",
		DatasetIDs: []int64{7},
		Resources:  tasks.Resources{CPU: 16, MemoryGB: 128, GPU: 4},
		EnvVars:    map[string]string{"EPOCHS": "3"},
	})
	require.NoError(t, err)
	require.EqualValues(t, 9, job.ID)
	require.Equal(t, tasks.StatusPending, job.Status)
}

func TestCancelPostsToStop(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{"code": 0})
	}))
	defer srv.Close()

	c := tasks.New(transport.NewClient(srv.URL))
	require.NoError(t, c.Cancel(context.Background(), 9))
	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "/training/jobs/9/stop", gotPath)
}

func TestLogsSendsTail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/training/jobs/9/logs", r.URL.Path)
		require.Equal(t, "200", r.URL.Query().Get("tail"))
		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{"logs": "epoch 1/3 loss=0.42"},
		})
	}))
	defer srv.Close()

	c := tasks.New(transport.NewClient(srv.URL))
	logs, err := c.Logs(context.Background(), 9, 200)
	require.NoError(t, err)
	require.Equal(t, "epoch 1/3 loss=0.42", logs)
}
