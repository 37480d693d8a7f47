package approvals_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/kinhub/internal/app/features/approvals"
	credentialstore "github.com/dalemusser/kinhub/internal/app/store/credentials"
	memberstore "github.com/dalemusser/kinhub/internal/app/store/members"
	submissionstore "github.com/dalemusser/kinhub/internal/app/store/submissions"
	"github.com/dalemusser/kinhub/internal/app/system/approval"
	"github.com/dalemusser/kinhub/internal/app/system/indexes"
	"github.com/dalemusser/kinhub/internal/domain/models"
	"github.com/dalemusser/kinhub/internal/testutil"
	"go.uber.org/zap"
)

type env struct {
	h       *approvals.Handler
	fx      *testutil.Fixtures
	members *memberstore.Store
	creds   *credentialstore.Store
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	subs := submissionstore.New(db)
	members := memberstore.New(db)
	creds := credentialstore.New(db)
	svc := &approval.Service{
		Subs:       subs,
		Members:    members,
		Creds:      creds,
		BcryptCost: 4,
		Log:        zap.NewNop(),
	}
	return env{
		h:       approvals.NewHandler(svc, subs, zap.NewNop()),
		fx:      testutil.NewFixtures(t, db),
		members: members,
		creds:   creds,
	}
}

func adminPost(t *testing.T, target, id, body string) (*testutil.ResponseRecorder, *http.Request) {
	t.Helper()
	req := httptest.NewRequest("POST", target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = testutil.WithUser(req, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", id)
	return testutil.NewRecorder(), req
}

func TestServeList_PendingByDefault(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e.fx.CreatePendingSubmission(ctx, models.KindHierarchyForm, "Anant", "a@example.com")
	e.fx.CreatePendingSubmission(ctx, models.KindHierarchyForm, "Vasant", "v@example.com")
	e.fx.CreatePendingSubmission(ctx, models.KindTempMember, "Madhav", "m@example.com")

	req := testutil.NewAuthenticatedRequest("GET", "/", testutil.AdminUser())
	rec := testutil.NewRecorder()
	e.h.ServeList(models.KindHierarchyForm)(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)

	var body struct {
		Submissions []models.PendingSubmission `json:"submissions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Submissions) != 2 {
		t.Errorf("submissions = %d, want 2 (kind filter)", len(body.Submissions))
	}
}

func TestServeList_InvalidStatus(t *testing.T) {
	e := setup(t)
	req := testutil.NewAuthenticatedRequest("GET", "/?status=bogus", testutil.AdminUser())
	rec := testutil.NewRecorder()
	e.h.ServeList(models.KindHierarchyForm)(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleApprove(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sub := e.fx.CreatePendingSubmission(ctx, models.KindHierarchyForm, "Anant", "anant@example.com")

	rec, req := adminPost(t, "/approve", sub.ID.Hex(), `{"comments":"verified"}`)
	e.h.HandleApprove(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	var body struct {
		Member struct {
			SerNo int `json:"serNo"`
		} `json:"member"`
		CredentialsIssued       bool   `json:"credentialsIssued"`
		TemporaryCredentialHint string `json:"temporaryCredentialHint"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Member.SerNo != 1 {
		t.Errorf("serNo = %d, want 1", body.Member.SerNo)
	}
	if !body.CredentialsIssued || body.TemporaryCredentialHint == "" {
		t.Errorf("credential result = %v %q", body.CredentialsIssued, body.TemporaryCredentialHint)
	}
	if !strings.Contains(body.TemporaryCredentialHint, "*") {
		t.Errorf("hint %q should be masked", body.TemporaryCredentialHint)
	}

	m, err := e.members.GetBySerNo(ctx, 1)
	if err != nil {
		t.Fatalf("member not minted: %v", err)
	}
	if m.FirstName != "Anant" || m.ApprovedBy != "Test Admin" {
		t.Errorf("member = %+v", m)
	}
	if _, err := e.creds.GetByUsername(ctx, "anant@example.com"); err != nil {
		t.Errorf("credential not minted: %v", err)
	}
}

func TestHandleApprove_Twice(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sub := e.fx.CreatePendingSubmission(ctx, models.KindHierarchyForm, "Anant", "twice@example.com")

	rec, req := adminPost(t, "/approve", sub.ID.Hex(), "")
	e.h.HandleApprove(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	rec, req = adminPost(t, "/approve", sub.ID.Hex(), "")
	e.h.HandleApprove(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusConflict)
}

func TestHandleApprove_NotFound(t *testing.T) {
	e := setup(t)
	rec, req := adminPost(t, "/approve", "6543210987654321fedcba98", "")
	e.h.HandleApprove(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestHandleApprove_BadID(t *testing.T) {
	e := setup(t)
	rec, req := adminPost(t, "/approve", "not-an-id", "")
	e.h.HandleApprove(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleReject(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sub := e.fx.CreatePendingSubmission(ctx, models.KindTempMember, "Vasant", "vr@example.com")

	rec, req := adminPost(t, "/reject", sub.ID.Hex(), `{"reason":"duplicate entry"}`)
	e.h.HandleReject(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	// No member minted on rejection.
	if _, err := e.members.GetBySerNo(ctx, 1); err == nil {
		t.Error("rejection must not mint a member")
	}

	// Second decision conflicts.
	rec, req = adminPost(t, "/reject", sub.ID.Hex(), `{"reason":"again"}`)
	e.h.HandleReject(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusConflict)
}

func TestHandleReject_RequiresReason(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sub := e.fx.CreatePendingSubmission(ctx, models.KindHierarchyForm, "Anant", "nr@example.com")

	rec, req := adminPost(t, "/reject", sub.ID.Hex(), `{}`)
	e.h.HandleReject(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}
