package rest

import (
	"strings"
	"testing"

	apidatasets "github.com/opst/writerid/pkg/api/types/datasets"
	apimodels "github.com/opst/writerid/pkg/api/types/models"
	"github.com/opst/writerid/pkg/api/types/status"
	"github.com/rs/zerolog"
)

type item struct {
	Id string `json:"id"`
}

func TestDecodeList(t *testing.T) {
	type then struct {
		ids   []string
		total int
		err   bool
	}

	for name, testcase := range map[string]struct {
		body string
		then then
	}{
		"when body is a bare array, it is the list": {
			body: `[{"id": "a"}, {"id": "b"}]`,
			then: then{ids: []string{"a", "b"}, total: 2},
		},
		"when body has data, it is the list": {
			body: `{"data": [{"id": "a"}], "total": 10}`,
			then: then{ids: []string{"a"}, total: 10},
		},
		"when body has the entity field, it is the list": {
			body: `{"tasks": [{"id": "a"}, {"id": "b"}]}`,
			then: then{ids: []string{"a", "b"}, total: 2},
		},
		"when total is zero, the number of items is used": {
			body: `{"tasks": [{"id": "a"}], "total": 0}`,
			then: then{ids: []string{"a"}, total: 1},
		},
		"when body has an unknown shape, it is empty": {
			body: `{"items": [{"id": "a"}]}`,
			then: then{ids: []string{}, total: 0},
		},
		"when body is a scalar, it is empty": {
			body: `42`,
			then: then{ids: []string{}, total: 0},
		},
		"when body is null, it is empty": {
			body: `null`,
			then: then{ids: []string{}, total: 0},
		},
		"when body is empty, it is empty": {
			body: ``,
			then: then{ids: []string{}, total: 0},
		},
		"when an item is broken, it returns error": {
			body: `[{"id": 1}]`,
			then: then{err: true},
		},
	} {
		t.Run(name, func(t *testing.T) {
			page, err := decodeList[item]([]byte(testcase.body), "tasks", zerolog.Nop())
			if testcase.then.err {
				if err == nil {
					t.Errorf("expected error, but got %+v", page)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if page.Items == nil {
				t.Errorf("items should not be nil")
			}
			if len(page.Items) != len(testcase.then.ids) {
				t.Fatalf("wrong items: %+v", page.Items)
			}
			for i, id := range testcase.then.ids {
				if page.Items[i].Id != id {
					t.Errorf("items[%d]: (actual, expected) = (%s, %s)", i, page.Items[i].Id, id)
				}
			}
			if page.Total != testcase.then.total {
				t.Errorf("total: (actual, expected) = (%d, %d)", page.Total, testcase.then.total)
			}
		})
	}
}

func TestDecodeList_UnknownStatus(t *testing.T) {
	t.Run("when a dataset has an unknown status, other datasets are still listed", func(t *testing.T) {
		logs := new(strings.Builder)
		page, err := decodeList[apidatasets.Detail](
			[]byte(`[{"id": "d1", "status": 2}, {"id": "d2", "status": "Queued"}]`),
			"datasets", zerolog.New(logs),
		)
		if err != nil {
			t.Fatal(err)
		}
		if len(page.Items) != 2 || page.Total != 2 {
			t.Fatalf("unexpected page: %+v", page)
		}
		if actual := page.Items[0].Status; actual != status.Completed {
			t.Errorf("items[0].Status = %s", actual)
		}
		if actual := page.Items[1].Status; actual != status.Unknown {
			t.Errorf("items[1].Status = %s", actual)
		}
		if !strings.Contains(logs.String(), `"id":"d2"`) || strings.Contains(logs.String(), `"id":"d1"`) {
			t.Errorf("unexpected warning: %s", logs.String())
		}
	})

	t.Run("when a model has a status number out of range, it is listed as Unknown", func(t *testing.T) {
		page, err := decodeList[apimodels.Detail](
			[]byte(`{"models": [{"id": "m1", "status": 4}]}`), "models", zerolog.Nop(),
		)
		if err != nil {
			t.Fatal(err)
		}
		if len(page.Items) != 1 || page.Items[0].Id != "m1" || page.Items[0].Status != status.Unknown {
			t.Errorf("unexpected page: %+v", page)
		}
	})
}
