package authz

import (
	"errors"
	"testing"

	"shortspace/internal/platform/models"
)

type mapStore struct {
	roles map[string]string // "user|org" -> role
}

func (s *mapStore) RoleOf(userID, orgID string) (string, error) {
	if userID == "err" {
		return "", errors.New("store failure")
	}
	return s.roles[userID+"|"+orgID], nil
}

func newTestAuthorizer() *Authorizer {
	return New(&mapStore{roles: map[string]string{
		"alice|org1": models.RoleAdmin,
		"bob|org1":   models.RoleEditor,
		"carol|org1": models.RoleViewer,
	}})
}

func TestRoleOf_NoMembership(t *testing.T) {
	a := newTestAuthorizer()

	role, err := a.RoleOf("dave", "org1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if role != "" {
		t.Errorf("Expected empty role for non-member, got %q", role)
	}

	ok, err := a.IsMember("dave", "org1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ok {
		t.Error("Non-member should not be a member")
	}
}

func TestPredicates(t *testing.T) {
	a := newTestAuthorizer()

	cases := []struct {
		user          string
		admin, editor bool
	}{
		{"alice", true, true},
		{"bob", false, true},
		{"carol", false, false},
		{"dave", false, false},
	}

	for _, tc := range cases {
		admin, err := a.IsAdmin(tc.user, "org1")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.user, err)
		}
		if admin != tc.admin {
			t.Errorf("%s: IsAdmin = %v, want %v", tc.user, admin, tc.admin)
		}

		editor, err := a.IsEditorOrAdmin(tc.user, "org1")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.user, err)
		}
		if editor != tc.editor {
			t.Errorf("%s: IsEditorOrAdmin = %v, want %v", tc.user, editor, tc.editor)
		}
	}
}

func TestObjectChecks_DirectAndIndirectOwnership(t *testing.T) {
	a := newTestAuthorizer()

	ns := &models.Namespace{ID: "ns1", Name: "docs", OrgID: "org1"}
	url := &models.ShortURL{ID: "url1", NamespaceID: "ns1", OrgID: "org1"}

	// Both entity kinds resolve through the same interface.
	for _, obj := range []OrganizationScoped{ns, url} {
		ok, err := a.CanView("carol", obj)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !ok {
			t.Errorf("Viewer should be able to view %T", obj)
		}

		ok, _ = a.CanEdit("carol", obj)
		if ok {
			t.Errorf("Viewer should not be able to edit %T", obj)
		}

		ok, _ = a.CanEdit("bob", obj)
		if !ok {
			t.Errorf("Editor should be able to edit %T", obj)
		}

		ok, _ = a.CanAdminister("bob", obj)
		if ok {
			t.Errorf("Editor should not administer %T", obj)
		}

		ok, _ = a.CanAdminister("alice", obj)
		if !ok {
			t.Errorf("Admin should administer %T", obj)
		}
	}
}

func TestStoreErrorPropagates(t *testing.T) {
	a := newTestAuthorizer()
	if _, err := a.IsAdmin("err", "org1"); err == nil {
		t.Error("Expected store error to propagate")
	}
}
