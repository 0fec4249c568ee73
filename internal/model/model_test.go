package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionsFor_DisjointSets(t *testing.T) {
	student := PermissionsFor(RoleStudent)
	admin := PermissionsFor(RoleAdmin)

	assert.ElementsMatch(t, []Permission{PermissionRequestsSubmit, PermissionRequestsReadOwn}, student)
	assert.Contains(t, admin, PermissionRequestsProcess)
	for _, p := range student {
		assert.NotContains(t, admin, p)
	}
	assert.Empty(t, PermissionsFor(Role("guest")))
}

func TestPermissionsFor_ReturnsCopy(t *testing.T) {
	perms := PermissionsFor(RoleAdmin)
	perms[0] = "tampered"
	assert.Equal(t, PermissionRequestsReadAll, PermissionsFor(RoleAdmin)[0])
}

func TestDashboardFor(t *testing.T) {
	d, ok := DashboardFor(RoleAdmin)
	assert.True(t, ok)
	assert.Equal(t, DashboardAdmin, d)

	_, ok = DashboardFor(Role(""))
	assert.False(t, ok)
}

func TestRequestStats_Add(t *testing.T) {
	var s RequestStats
	for _, st := range []RequestStatus{StatusPending, StatusApproved, StatusApproved, StatusRejected} {
		s.Add(st)
	}
	assert.Equal(t, RequestStats{Total: 4, Pending: 1, Approved: 2, Rejected: 1}, s)
}

func TestCertificatePathFor(t *testing.T) {
	assert.Equal(t, "certificates/abc.pdf", CertificatePathFor("abc"))
}
