// Package household resolves an application's member selection against the household and
// computes the net-worth rollups shown on the application. Nothing here is cached; callers
// recompute from persisted state on every read.
package household

import (
	"strconv"
	"strings"

	"housing-workers/internal/models"

	"github.com/shopspring/decimal"
)

// MemberRollup is one selected person with the accounts attributed to them.
type MemberRollup struct {
	MemberID        int64                     `json:"memberId"`
	Name            string                    `json:"name"`
	RelationTypeCd  string                    `json:"relationTypeCd,omitempty"`
	IncomeValue     decimal.Decimal           `json:"incomeValue"`
	RealEstateValue decimal.Decimal           `json:"realEstateValue"`
	AssetValueAmt   decimal.Decimal           `json:"assetValueAmt"`
	AccountCount    int                       `json:"accountCount"`
	Accounts        []models.HouseholdAccount `json:"accounts"`
}

// Summary is the rollup of a member selection. The applicant always comes first.
type Summary struct {
	Members         []MemberRollup  `json:"members"`
	MemberIDs       string          `json:"memberIds"`
	AccountIDs      string          `json:"accountIds"`
	TotalIncome     decimal.Decimal `json:"totalIncome"`
	TotalAssets     decimal.Decimal `json:"totalAssets"`
	TotalRealEstate decimal.Decimal `json:"totalRealEstate"`
}

// ParseIDs parses a comma-separated id list. Blank, malformed and repeated entries are
// skipped, as is the applicant id which is always implied.
func ParseIDs(s string) []int64 {
	var ids []int64
	seen := make(map[int64]bool)
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= models.ApplicantMemberID || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// JoinIDs renders ids as a comma-separated list.
func JoinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// SelectMembers returns the household members named by memberIDs in selection order.
// Ids that do not resolve to a stored member are dropped.
func SelectMembers(h *models.Household, memberIDs string) []models.HouseholdMember {
	var out []models.HouseholdMember
	for _, id := range ParseIDs(memberIDs) {
		if m, ok := h.Member(id); ok {
			out = append(out, *m)
		}
	}
	return out
}

// ResolveMemberIDs returns memberIDs reduced to the ids that resolve in h.
func ResolveMemberIDs(h *models.Household, memberIDs string) string {
	members := SelectMembers(h, memberIDs)
	ids := make([]int64, len(members))
	for i := range members {
		ids[i] = members[i].ID
	}
	return JoinIDs(ids)
}

// LinkedAccounts returns the accounts whose primary holder is memberID, in household order.
func LinkedAccounts(h *models.Household, memberID int64) []models.HouseholdAccount {
	var out []models.HouseholdAccount
	for _, a := range h.Accounts {
		if a.PrimaryHolderMemberID == memberID {
			out = append(out, a)
		}
	}
	return out
}

// Aggregate computes the rollup for the applicant plus the selected members.
func Aggregate(profile *models.ApplicantProfile, h *models.Household, memberIDs string) Summary {
	applicant := MemberRollup{
		MemberID:        models.ApplicantMemberID,
		Name:            profile.FullName(),
		IncomeValue:     profile.IncomeValue,
		RealEstateValue: profile.RealEstateValue,
	}
	rollups := []MemberRollup{applicant}

	selected := SelectMembers(h, memberIDs)
	selectedIDs := make([]int64, 0, len(selected))
	for _, m := range selected {
		selectedIDs = append(selectedIDs, m.ID)
		rollups = append(rollups, MemberRollup{
			MemberID:        m.ID,
			Name:            m.FullName(),
			RelationTypeCd:  m.RelationTypeCd,
			IncomeValue:     m.IncomeValue,
			RealEstateValue: m.RealEstateValue,
		})
	}

	index := make(map[int64]int, len(rollups))
	for i, r := range rollups {
		index[r.MemberID] = i
	}

	sum := Summary{
		MemberIDs:       JoinIDs(selectedIDs),
		TotalIncome:     decimal.Zero,
		TotalAssets:     decimal.Zero,
		TotalRealEstate: decimal.Zero,
	}
	var accountIDs []int64
	for _, a := range h.Accounts {
		i, ok := index[a.PrimaryHolderMemberID]
		if !ok {
			continue
		}
		r := &rollups[i]
		r.Accounts = append(r.Accounts, a)
		r.AccountCount++
		r.AssetValueAmt = r.AssetValueAmt.Add(a.Value)
		accountIDs = append(accountIDs, a.ID)
	}

	for _, r := range rollups {
		sum.TotalIncome = sum.TotalIncome.Add(r.IncomeValue)
		sum.TotalRealEstate = sum.TotalRealEstate.Add(r.RealEstateValue)
		sum.TotalAssets = sum.TotalAssets.Add(r.AssetValueAmt)
	}
	sum.Members = rollups
	sum.AccountIDs = JoinIDs(accountIDs)
	return sum
}
