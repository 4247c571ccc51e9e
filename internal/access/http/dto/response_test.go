package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accessDomain "github.com/allisson/ghostpass/internal/access/domain"
	accessUseCase "github.com/allisson/ghostpass/internal/access/usecase"
	profileDomain "github.com/allisson/ghostpass/internal/profile/domain"
)

func TestMapIssueTokenOutputToResponse(t *testing.T) {
	t.Run("Success_WithQRCode", func(t *testing.T) {
		output := &accessDomain.IssueTokenOutput{
			ID:         uuid.Must(uuid.NewV7()),
			PlainToken: "plain",
			ExpiresAt:  time.Now().UTC(),
			ProfileID:  uuid.Must(uuid.NewV7()),
			Purpose:    accessDomain.PurposeProfileView,
			QRCode:     []byte{0x89, 0x50, 0x4e, 0x47},
		}

		response := MapIssueTokenOutputToResponse(output)

		assert.Equal(t, output.ID.String(), response.ID)
		assert.Equal(t, "plain", response.Token)
		assert.Equal(t, "profile_view", response.Purpose)
		assert.Equal(t, "iVBORw==", response.QRCode)
	})

	t.Run("Success_WithoutQRCode", func(t *testing.T) {
		output := &accessDomain.IssueTokenOutput{
			ID:        uuid.Must(uuid.NewV7()),
			ProfileID: uuid.Must(uuid.NewV7()),
		}

		body, err := json.Marshal(MapIssueTokenOutputToResponse(output))
		require.NoError(t, err)
		assert.NotContains(t, string(body), "qrCode")
	})
}

func TestMapProfileViewToResponse(t *testing.T) {
	t.Run("Success_IncognitoHasOnlyRestrictedFields", func(t *testing.T) {
		view := &profileDomain.ProfileView{
			ID:          uuid.Must(uuid.NewV7()),
			MemberID:    "VLD-1",
			FullName:    "Sam",
			Email:       "sam@example.com",
			StatusColor: "green",
		}

		body, err := json.Marshal(MapProfileViewToResponse(view))
		require.NoError(t, err)

		var fields map[string]any
		require.NoError(t, json.Unmarshal(body, &fields))
		assert.Len(t, fields, 5)
		assert.Equal(t, "VLD-1", fields["member_id"])
		assert.Equal(t, "green", fields["status_color"])
	})

	t.Run("Success_StandardIsFlattened", func(t *testing.T) {
		view := &profileDomain.ProfileView{
			ID:       uuid.Must(uuid.NewV7()),
			FullName: "Sam",
			Extended: &profileDomain.ExtendedProfile{
				PrivacyMode: profileDomain.PrivacyStandard,
				City:        "Lisbon",
				IDVerified:  true,
			},
		}

		body, err := json.Marshal(MapProfileViewToResponse(view))
		require.NoError(t, err)

		var fields map[string]any
		require.NoError(t, json.Unmarshal(body, &fields))
		assert.Equal(t, "standard", fields["privacy_mode"])
		assert.Equal(t, "Lisbon", fields["city"])
		assert.Equal(t, true, fields["id_verified"])
		assert.Contains(t, fields, "date_of_birth")
	})

	t.Run("Success_Nil", func(t *testing.T) {
		assert.Nil(t, MapProfileViewToResponse(nil))
	})
}

func TestMapVerifyTokenOutputToResponse(t *testing.T) {
	t.Run("Success_NonAllowOmitsProfile", func(t *testing.T) {
		output := &accessDomain.VerifyTokenOutput{Result: accessDomain.DecisionExpired}

		body, err := json.Marshal(MapVerifyTokenOutputToResponse(output))
		require.NoError(t, err)
		assert.JSONEq(t, `{"result":"EXPIRED"}`, string(body))
	})

	t.Run("Success_AllowCarriesBadges", func(t *testing.T) {
		expiresAt := time.Now().UTC()
		output := &accessDomain.VerifyTokenOutput{
			Result:         accessDomain.DecisionAllow,
			Purpose:        accessDomain.PurposeVenueAdmission,
			Profile:        &profileDomain.ProfileView{ID: uuid.Must(uuid.NewV7())},
			Badges:         &profileDomain.Badges{StatusValid: true, StatusColor: "green"},
			TokenExpiresAt: &expiresAt,
		}

		response := MapVerifyTokenOutputToResponse(output)

		assert.Equal(t, "ALLOW", response.Result)
		assert.Equal(t, "venue_admission", response.Purpose)
		require.NotNil(t, response.Badges)
		assert.True(t, response.Badges.StatusValid)
		assert.Equal(t, &expiresAt, response.TokenExpiresAt)
	})
}

func TestMapAccessTokensToListResponse(t *testing.T) {
	reason := "lost"
	revokedAt := time.Now().UTC()
	tokens := []*accessDomain.AccessToken{
		{
			ID:               uuid.Must(uuid.NewV7()),
			ProfileID:        uuid.Must(uuid.NewV7()),
			Purpose:          accessDomain.PurposeGhostShare,
			RevokedAt:        &revokedAt,
			RevocationReason: reason,
		},
	}

	response := MapAccessTokensToListResponse(tokens)

	assert.Len(t, response.Data, 1)
	assert.Equal(t, tokens[0].ID.String(), response.Data[0].ID)
	assert.Equal(t, "ghost_share", response.Data[0].Purpose)
	assert.Equal(t, reason, response.Data[0].RevocationReason)

	empty := MapAccessTokensToListResponse(nil)
	assert.NotNil(t, empty.Data)
	assert.Len(t, empty.Data, 0)
}

func TestMapAuditLogsToListResponse(t *testing.T) {
	auditLog := &accessDomain.AuditLog{
		ID:        uuid.Must(uuid.NewV7()),
		RequestID: uuid.Must(uuid.NewV7()),
		ActorID:   uuid.Must(uuid.NewV7()),
		Action:    accessDomain.ActionTokenRevoke,
		TokenID:   uuid.Must(uuid.NewV7()),
		Metadata:  map[string]any{"admin": true},
		IsSigned:  true,
		CreatedAt: time.Now().UTC(),
	}

	response := MapAuditLogsToListResponse([]*accessDomain.AuditLog{auditLog})

	assert.Len(t, response.Data, 1)
	assert.Equal(t, auditLog.TokenID.String(), response.Data[0].TokenID)
	assert.Equal(t, "token.revoke", response.Data[0].Action)
	assert.True(t, response.Data[0].IsSigned)
}

func TestMapVerificationReportToResponse(t *testing.T) {
	invalidID := uuid.Must(uuid.NewV7())
	actorID := uuid.Must(uuid.NewV7())
	report := &accessUseCase.VerificationReport{
		TotalChecked: 3,
		SignedCount:  2,
		ValidCount:   1,
		InvalidCount: 1,
		InvalidLogs:  []uuid.UUID{invalidID},
		Revocations:  []accessUseCase.ActorRevocations{{ActorID: actorID, Count: 2, OnBehalf: 1}},
	}

	response := MapVerificationReportToResponse(report)

	assert.Equal(t, int64(3), response.TotalChecked)
	assert.Equal(t, []string{invalidID.String()}, response.InvalidLogs)
	assert.Equal(t, []ActorRevocationsResponse{
		{ActorID: actorID.String(), Count: 2, OnBehalf: 1},
	}, response.Revocations)

	empty := MapVerificationReportToResponse(&accessUseCase.VerificationReport{})
	assert.NotNil(t, empty.Revocations)
	assert.NotNil(t, empty.InvalidLogs)
}
