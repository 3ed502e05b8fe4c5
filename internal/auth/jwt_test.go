package auth

import (
	"testing"
	"time"

	"github.com/fundflow/crowdfund/services/api/internal/domain"
)

func TestManager_IssueAndVerify(t *testing.T) {
	t.Parallel()

	mgr := NewManager("test-secret", time.Hour)
	now := time.Now().UTC()

	token, err := mgr.Issue("user-1", domain.UserRoleCampaignOwner, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := mgr.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected user-1, got %s", claims.UserID)
	}
	if claims.Role != domain.UserRoleCampaignOwner {
		t.Fatalf("expected campaign_owner role, got %s", claims.Role)
	}
}

func TestManager_Verify_Rejects(t *testing.T) {
	t.Parallel()

	mgr := NewManager("test-secret", time.Hour)
	now := time.Now().UTC()

	t.Run("garbage token", func(t *testing.T) {
		if _, err := mgr.Verify("not-a-token"); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewManager("other-secret", time.Hour)
		token, err := other.Issue("user-1", domain.UserRoleUser, now)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		if _, err := mgr.Verify(token); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := mgr.Issue("user-1", domain.UserRoleUser, now.Add(-48*time.Hour))
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		if _, err := mgr.Verify(token); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})
}
