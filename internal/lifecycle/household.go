package lifecycle

import (
	"context"

	"housing-workers/internal/common/errors"
	"housing-workers/internal/models"
	"housing-workers/internal/refdata"
	"housing-workers/internal/rules"
)

var memberSets = []refdata.Set{
	refdata.Relation, refdata.IDType, refdata.Gender, refdata.Race, refdata.Ethnicity, refdata.PhoneType,
}

// SaveMember validates a household member and inserts it, or updates it when m.ID is set.
// The household is created on the first member.
func (s *Service) SaveMember(ctx context.Context, username string, m *models.HouseholdMember) (*models.HouseholdMember, error) {
	hh, err := s.households.EnsureHousehold(ctx, username)
	if err != nil {
		return nil, errors.Wrap(errors.HouseholdSystemError, err)
	}
	dict, err := s.refdata.Load(ctx, memberSets...)
	if err != nil {
		return nil, errors.Wrap(errors.HouseholdSystemError, err)
	}

	member := *m
	rules.NormalizeMember(&member)
	if member.ID != 0 {
		if _, ok := hh.Member(member.ID); !ok {
			return nil, errors.New(errors.HouseholdMemberNotFound, "")
		}
	}
	if code := rules.ValidateMember(&member, dict); code != "" {
		return nil, errors.New(code, "")
	}
	if rules.IsDuplicateMember(&member, hh.Members) {
		return nil, errors.New(errors.HouseholdDuplicateMember, "")
	}

	member.HouseholdID = hh.ID
	if err := s.households.UpsertMember(ctx, hh.ID, &member); err != nil {
		return nil, errors.System(errors.HouseholdSystemError, errors.HouseholdMemberNotFound, err)
	}
	s.logger.Info("household member saved", map[string]interface{}{
		"username": username,
		"memberId": member.ID,
	})
	return &member, nil
}

// SaveAccount validates a household account and inserts it, or updates it when a.ID is set.
func (s *Service) SaveAccount(ctx context.Context, username string, a *models.HouseholdAccount) (*models.HouseholdAccount, error) {
	hh, err := s.households.EnsureHousehold(ctx, username)
	if err != nil {
		return nil, errors.Wrap(errors.HouseholdSystemError, err)
	}
	dict, err := s.refdata.Load(ctx, refdata.AccountType)
	if err != nil {
		return nil, errors.Wrap(errors.HouseholdSystemError, err)
	}

	account := *a
	rules.NormalizeAccount(&account)
	if account.ID != 0 {
		if _, ok := hh.Account(account.ID); !ok {
			return nil, errors.New(errors.HouseholdAccountNotFound, "")
		}
	}
	if code := rules.ValidateAccount(&account, hh, dict); code != "" {
		return nil, errors.New(code, "")
	}
	if rules.IsDuplicateAccount(&account, hh.Accounts) {
		return nil, errors.New(errors.HouseholdDuplicateAccount, "")
	}

	account.HouseholdID = hh.ID
	if err := s.households.UpsertAccount(ctx, hh.ID, &account); err != nil {
		return nil, errors.System(errors.HouseholdSystemError, errors.HouseholdAccountNotFound, err)
	}
	s.logger.Info("household account saved", map[string]interface{}{
		"username":  username,
		"accountId": account.ID,
	})
	return &account, nil
}

// DeleteMember removes a member. The store removes the accounts they hold with them.
func (s *Service) DeleteMember(ctx context.Context, username string, memberID int64) error {
	hh, err := s.households.GetHousehold(ctx, username)
	if err != nil {
		return errors.System(errors.HouseholdSystemError, errors.HouseholdNotFound, err)
	}
	if _, ok := hh.Member(memberID); !ok {
		return errors.New(errors.HouseholdMemberNotFound, "")
	}
	if err := s.households.DeleteMember(ctx, hh.ID, memberID); err != nil {
		return errors.System(errors.HouseholdSystemError, errors.HouseholdMemberNotFound, err)
	}
	return nil
}

func (s *Service) DeleteAccount(ctx context.Context, username string, accountID int64) error {
	hh, err := s.households.GetHousehold(ctx, username)
	if err != nil {
		return errors.System(errors.HouseholdSystemError, errors.HouseholdNotFound, err)
	}
	if _, ok := hh.Account(accountID); !ok {
		return errors.New(errors.HouseholdAccountNotFound, "")
	}
	if err := s.households.DeleteAccount(ctx, hh.ID, accountID); err != nil {
		return errors.System(errors.HouseholdSystemError, errors.HouseholdAccountNotFound, err)
	}
	return nil
}
