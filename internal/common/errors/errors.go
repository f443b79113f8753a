// Package errors provides the result-code taxonomy of the housing application engine
// and its conversion to BPMN errors.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode is a short result code. The empty code means success.
type ErrorCode string

// Kind groups result codes by how callers react to them.
type Kind string

const (
	KindNone       Kind = ""
	KindNotFound   Kind = "NOT_FOUND"
	KindValidation Kind = "VALIDATION_FAILURE"
	KindDuplicate  Kind = "DUPLICATE_ENTITY"
	KindPolicy     Kind = "POLICY_VIOLATION"
	KindSystem     Kind = "SYSTEM_FAILURE"
)

// Store sentinels. Stores wrap these with %w.
var (
	ErrNotFound = stderrors.New("not found")
	ErrConflict = stderrors.New("conflict")
)

// Household codes.
const (
	HouseholdAddressLine1Required      ErrorCode = "H001"
	HouseholdCityRequired              ErrorCode = "H002"
	HouseholdStateRequired             ErrorCode = "H003"
	HouseholdZipRequired               ErrorCode = "H004"
	HouseholdMailingLine1Required      ErrorCode = "H005"
	HouseholdMailingCityRequired       ErrorCode = "H006"
	HouseholdMailingStateRequired      ErrorCode = "H007"
	HouseholdMailingZipRequired        ErrorCode = "H008"
	HouseholdVoucherTypeRequired       ErrorCode = "H009"
	HouseholdVoucherTypeInvalid        ErrorCode = "H010"
	HouseholdVoucherOtherRequired      ErrorCode = "H011"
	HouseholdVoucherAdminRequired      ErrorCode = "H012"
	HouseholdRelationTypeInvalid       ErrorCode = "H013"
	HouseholdRelationOtherRequired     ErrorCode = "H014"
	HouseholdMemberFirstNameRequired   ErrorCode = "H015"
	HouseholdMemberLastNameRequired    ErrorCode = "H016"
	HouseholdMemberLast4SSNRequired    ErrorCode = "H017"
	HouseholdMemberDOBInvalid          ErrorCode = "H018"
	HouseholdMemberIDTypeInvalid       ErrorCode = "H019"
	HouseholdMemberIDValueRequired     ErrorCode = "H020"
	HouseholdMemberIDIssueDateInvalid  ErrorCode = "H021"
	HouseholdMemberGenderInvalid       ErrorCode = "H022"
	HouseholdMemberRaceInvalid         ErrorCode = "H023"
	HouseholdMemberEthnicityInvalid    ErrorCode = "H024"
	HouseholdMemberPhoneInvalid        ErrorCode = "H025"
	HouseholdMemberPhoneTypeInvalid    ErrorCode = "H026"
	HouseholdMemberEmailInvalid        ErrorCode = "H027"
	HouseholdMemberAltEmailInvalid     ErrorCode = "H028"
	HouseholdMemberEmailsMatch         ErrorCode = "H029"
	HouseholdDuplicateMember           ErrorCode = "H030"
	HouseholdAccountTypeInvalid        ErrorCode = "H031"
	HouseholdAccountTypeOtherRequired  ErrorCode = "H032"
	HouseholdAccountNumberRequired     ErrorCode = "H033"
	HouseholdInstitutionNameRequired   ErrorCode = "H034"
	HouseholdDuplicateAccount          ErrorCode = "H035"
	HouseholdMemberNotFound            ErrorCode = "H036"
	HouseholdAccountNotFound           ErrorCode = "H037"
	HouseholdAccountValueInvalid       ErrorCode = "H038"
	HouseholdMemberAltPhoneInvalid     ErrorCode = "H039"
	HouseholdMemberAltPhoneTypeInvalid ErrorCode = "H040"
	HouseholdPrimaryHolderInvalid      ErrorCode = "H041"
	HouseholdNotFound                  ErrorCode = "H098"
	HouseholdSystemError               ErrorCode = "H099"
)

// Profile (applicant info step) codes.
const (
	ProfileFirstNameRequired   ErrorCode = "P001"
	ProfileLastNameRequired    ErrorCode = "P002"
	ProfileNameInvalid         ErrorCode = "P003"
	ProfileDOBInvalid          ErrorCode = "P004"
	ProfileEmailRequired       ErrorCode = "P005"
	ProfileEmailInvalid        ErrorCode = "P006"
	ProfileAltEmailInvalid     ErrorCode = "P007"
	ProfileEmailsMatch         ErrorCode = "P008"
	ProfilePhoneInvalid        ErrorCode = "P009"
	ProfilePhoneTypeInvalid    ErrorCode = "P010"
	ProfileAltPhoneInvalid     ErrorCode = "P011"
	ProfileAltPhoneTypeInvalid ErrorCode = "P012"
	ProfileGenderInvalid       ErrorCode = "P013"
	ProfileRaceInvalid         ErrorCode = "P014"
	ProfileEthnicityInvalid    ErrorCode = "P015"
	ProfileNotFound            ErrorCode = "P098"
	ProfileSystemError         ErrorCode = "P099"
)

// Application codes.
const (
	ApplicationUnitTypeRequired     ErrorCode = "A001"
	ApplicationUnitTypeInvalid      ErrorCode = "A002"
	ApplicationLeadTypeInvalid      ErrorCode = "A003"
	ApplicationLeadOtherRequired    ErrorCode = "A004"
	ApplicationListingClosed        ErrorCode = "A005"
	ApplicationWithdrawNotPermitted ErrorCode = "A006"
	ApplicationWithdrawWindowClosed ErrorCode = "A007"
	ApplicationNotEditable          ErrorCode = "A008"
	ApplicationAlreadySubmitted     ErrorCode = "A009"
	ApplicationStepInvalid          ErrorCode = "A010"
	ApplicationRateNotFound         ErrorCode = "A011"
	ApplicationAmiConfigNotFound    ErrorCode = "A012"
	ApplicationListingNotFound      ErrorCode = "A097"
	ApplicationNotFound             ErrorCode = "A098"
	ApplicationSystemError          ErrorCode = "A099"
)

// Document codes.
const (
	DocumentFileNameRequired ErrorCode = "D001"
	DocumentEmpty            ErrorCode = "D002"
	DocumentTooLarge         ErrorCode = "D003"
	DocumentFileTypeInvalid  ErrorCode = "D004"
	DocumentDuplicate        ErrorCode = "D005"
	DocumentTypeInvalid      ErrorCode = "D006"
	DocumentNameRequired     ErrorCode = "D007"
	DocumentNotFound         ErrorCode = "D098"
	DocumentSystemError      ErrorCode = "D099"
)

// Comment codes.
const (
	CommentTextRequired ErrorCode = "C001"
	CommentNotAllowed   ErrorCode = "C002"
	CommentTooLong      ErrorCode = "C003"
	CommentSystemError  ErrorCode = "C099"
)

// Registration/account format codes.
const (
	RegistrationUsernameInvalid  ErrorCode = "R001"
	RegistrationEmailInvalid     ErrorCode = "R002"
	RegistrationPasswordInvalid  ErrorCode = "R003"
	RegistrationPasswordMismatch ErrorCode = "R004"
)

// Notification codes. Delivery is best-effort so these are only logged.
const (
	NotificationEmailFailed     ErrorCode = "N001"
	NotificationSMSFailed       ErrorCode = "N002"
	NotificationTemplateMissing ErrorCode = "N003"
)

// Job codes.
const (
	JobInputInvalid ErrorCode = "J001"
)

type catalogEntry struct {
	kind    Kind
	message string
}

var catalog = map[ErrorCode]catalogEntry{
	HouseholdAddressLine1Required:      {KindValidation, "Street address is required"},
	HouseholdCityRequired:              {KindValidation, "City is required"},
	HouseholdStateRequired:             {KindValidation, "State is required"},
	HouseholdZipRequired:               {KindValidation, "Zip code is required"},
	HouseholdMailingLine1Required:      {KindValidation, "Mailing street address is required"},
	HouseholdMailingCityRequired:       {KindValidation, "Mailing city is required"},
	HouseholdMailingStateRequired:      {KindValidation, "Mailing state is required"},
	HouseholdMailingZipRequired:        {KindValidation, "Mailing zip code is required"},
	HouseholdVoucherTypeRequired:       {KindValidation, "Select at least one voucher type"},
	HouseholdVoucherTypeInvalid:        {KindValidation, "Voucher type is not recognized"},
	HouseholdVoucherOtherRequired:      {KindValidation, "Describe the other voucher type"},
	HouseholdVoucherAdminRequired:      {KindValidation, "Voucher administrator is required"},
	HouseholdRelationTypeInvalid:       {KindValidation, "Relationship is not recognized"},
	HouseholdRelationOtherRequired:     {KindValidation, "Describe the other relationship"},
	HouseholdMemberFirstNameRequired:   {KindValidation, "Member first name is required"},
	HouseholdMemberLastNameRequired:    {KindValidation, "Member last name is required"},
	HouseholdMemberLast4SSNRequired:    {KindValidation, "Last four digits of SSN are required"},
	HouseholdMemberDOBInvalid:          {KindValidation, "Member date of birth is missing or invalid"},
	HouseholdMemberIDTypeInvalid:       {KindValidation, "ID type is not recognized"},
	HouseholdMemberIDValueRequired:     {KindValidation, "ID number is required"},
	HouseholdMemberIDIssueDateInvalid:  {KindValidation, "ID issue date is invalid"},
	HouseholdMemberGenderInvalid:       {KindValidation, "Gender is not recognized"},
	HouseholdMemberRaceInvalid:         {KindValidation, "Race is not recognized"},
	HouseholdMemberEthnicityInvalid:    {KindValidation, "Ethnicity is not recognized"},
	HouseholdMemberPhoneInvalid:        {KindValidation, "Phone number is invalid"},
	HouseholdMemberPhoneTypeInvalid:    {KindValidation, "Phone type is not recognized"},
	HouseholdMemberEmailInvalid:        {KindValidation, "Email address is invalid"},
	HouseholdMemberAltEmailInvalid:     {KindValidation, "Alternate email address is invalid"},
	HouseholdMemberEmailsMatch:         {KindValidation, "Alternate email must differ from primary email"},
	HouseholdDuplicateMember:           {KindDuplicate, "This household member already exists"},
	HouseholdAccountTypeInvalid:        {KindValidation, "Account type is not recognized"},
	HouseholdAccountTypeOtherRequired:  {KindValidation, "Describe the other account type"},
	HouseholdAccountNumberRequired:     {KindValidation, "Account number is required for this account type"},
	HouseholdInstitutionNameRequired:   {KindValidation, "Institution name is required"},
	HouseholdDuplicateAccount:          {KindDuplicate, "This account already exists"},
	HouseholdMemberNotFound:            {KindNotFound, "Household member not found"},
	HouseholdAccountNotFound:           {KindNotFound, "Household account not found"},
	HouseholdAccountValueInvalid:       {KindValidation, "Account value cannot be negative"},
	HouseholdMemberAltPhoneInvalid:     {KindValidation, "Alternate phone number is invalid"},
	HouseholdMemberAltPhoneTypeInvalid: {KindValidation, "Alternate phone type is not recognized"},
	HouseholdPrimaryHolderInvalid:      {KindValidation, "Account holder is not a household member"},
	HouseholdNotFound:                  {KindNotFound, "Household not found"},
	HouseholdSystemError:               {KindSystem, "Household could not be saved"},

	ProfileFirstNameRequired:   {KindValidation, "First name is required"},
	ProfileLastNameRequired:    {KindValidation, "Last name is required"},
	ProfileNameInvalid:         {KindValidation, "Name contains invalid characters"},
	ProfileDOBInvalid:          {KindValidation, "Date of birth is missing or invalid"},
	ProfileEmailRequired:       {KindValidation, "Email address is required"},
	ProfileEmailInvalid:        {KindValidation, "Email address is invalid"},
	ProfileAltEmailInvalid:     {KindValidation, "Alternate email address is invalid"},
	ProfileEmailsMatch:         {KindValidation, "Alternate email must differ from primary email"},
	ProfilePhoneInvalid:        {KindValidation, "Phone number is invalid"},
	ProfilePhoneTypeInvalid:    {KindValidation, "Phone type is not recognized"},
	ProfileAltPhoneInvalid:     {KindValidation, "Alternate phone number is invalid"},
	ProfileAltPhoneTypeInvalid: {KindValidation, "Alternate phone type is not recognized"},
	ProfileGenderInvalid:       {KindValidation, "Gender is not recognized"},
	ProfileRaceInvalid:         {KindValidation, "Race is not recognized"},
	ProfileEthnicityInvalid:    {KindValidation, "Ethnicity is not recognized"},
	ProfileNotFound:            {KindNotFound, "Profile not found"},
	ProfileSystemError:         {KindSystem, "Profile could not be loaded"},

	ApplicationUnitTypeRequired:     {KindValidation, "Select at least one unit type"},
	ApplicationUnitTypeInvalid:      {KindValidation, "Unit type is not offered by this listing"},
	ApplicationLeadTypeInvalid:      {KindValidation, "Lead source is not recognized"},
	ApplicationLeadOtherRequired:    {KindValidation, "Describe where you heard about this listing"},
	ApplicationListingClosed:        {KindPolicy, "This listing is not accepting applications"},
	ApplicationWithdrawNotPermitted: {KindPolicy, "This application cannot be withdrawn"},
	ApplicationWithdrawWindowClosed: {KindPolicy, "The application period has ended"},
	ApplicationNotEditable:          {KindPolicy, "This application can no longer be edited"},
	ApplicationAlreadySubmitted:     {KindPolicy, "This application has already been submitted"},
	ApplicationStepInvalid:          {KindValidation, "Unknown application step"},
	ApplicationRateNotFound:         {KindValidation, "No amortization factors for this rate"},
	ApplicationAmiConfigNotFound:    {KindNotFound, "No AMI configuration for this year"},
	ApplicationListingNotFound:      {KindNotFound, "Listing not found"},
	ApplicationNotFound:             {KindNotFound, "Application not found"},
	ApplicationSystemError:          {KindSystem, "Application could not be saved"},

	DocumentFileNameRequired: {KindValidation, "Choose a file to upload"},
	DocumentEmpty:            {KindValidation, "The uploaded file is empty"},
	DocumentTooLarge:         {KindValidation, "The uploaded file is larger than 1 MB"},
	DocumentFileTypeInvalid:  {KindValidation, "This file type is not allowed"},
	DocumentDuplicate:        {KindDuplicate, "This document was already uploaded"},
	DocumentTypeInvalid:      {KindValidation, "Document type is not recognized"},
	DocumentNameRequired:     {KindValidation, "Document name is required"},
	DocumentNotFound:         {KindNotFound, "Document not found"},
	DocumentSystemError:      {KindSystem, "Document could not be saved"},

	CommentTextRequired: {KindValidation, "Comment text is required"},
	CommentNotAllowed:   {KindPolicy, "Comments cannot be added to this application"},
	CommentTooLong:      {KindValidation, "Comment is too long"},
	CommentSystemError:  {KindSystem, "Comment could not be saved"},

	RegistrationUsernameInvalid:  {KindValidation, "Username is invalid"},
	RegistrationEmailInvalid:     {KindValidation, "Email address is invalid"},
	RegistrationPasswordInvalid:  {KindValidation, "Password does not meet the requirements"},
	RegistrationPasswordMismatch: {KindValidation, "Passwords do not match"},

	NotificationEmailFailed:     {KindSystem, "Email notification failed"},
	NotificationSMSFailed:       {KindSystem, "SMS notification failed"},
	NotificationTemplateMissing: {KindSystem, "Notification template not found"},

	JobInputInvalid: {KindValidation, "Job variables are invalid"},
}

// Kind returns the kind of the code. Unknown codes are system failures.
func (c ErrorCode) Kind() Kind {
	if c == "" {
		return KindNone
	}
	if e, ok := catalog[c]; ok {
		return e.kind
	}
	return KindSystem
}

// Message returns the user-facing message for the code.
func (c ErrorCode) Message() string {
	if e, ok := catalog[c]; ok {
		return e.message
	}
	return "Something went wrong"
}

// OK reports whether the code means success.
func (c ErrorCode) OK() bool { return c == "" }

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Kind      Kind                   `json:"kind"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error { return e.cause }

// ==========================
// 2. Error Constructors
// ==========================

// New builds a StandardError for a result code.
func New(code ErrorCode, details string) *StandardError {
	kind := code.Kind()
	return &StandardError{
		Code:      code,
		Kind:      kind,
		Message:   code.Message(),
		Details:   details,
		Retryable: kind == KindSystem,
		Timestamp: time.Now().UTC(),
	}
}

// Wrap builds a StandardError that keeps err as its cause.
func Wrap(code ErrorCode, err error) *StandardError {
	se := New(code, err.Error())
	se.cause = err
	return se
}

// System reports a collaborator failure under a per-operation system code.
// A wrapped ErrNotFound is reported under notFound instead.
func System(code, notFound ErrorCode, err error) *StandardError {
	if notFound != "" && stderrors.Is(err, ErrNotFound) {
		return Wrap(notFound, err)
	}
	return Wrap(code, err)
}

// CodeOf extracts the result code carried by err. A nil error yields the empty code.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var se *StandardError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return "INTERNAL_ERROR"
}

// KindOf extracts the kind carried by err.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var se *StandardError
	if stderrors.As(err, &se) {
		return se.Kind
	}
	return KindSystem
}

// ==========================
// 3. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// BPMNErrorCode maps a kind to the BPMN error code a process model catches.
// The precise result code travels in the error variables.
func BPMNErrorCode(kind Kind) string {
	switch kind {
	case KindNotFound:
		return "START_OVER"
	case KindValidation, KindDuplicate:
		return "STEP_INVALID"
	case KindPolicy:
		return "POLICY_VIOLATION"
	default:
		return "SYSTEM_FAILURE"
	}
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	if code.Kind() == KindSystem {
		return 3
	}
	return 0
}

// ConvertToBPMNError converts a StandardError to a BPMNError.
func ConvertToBPMNError(err *StandardError) *BPMNError {
	vars := map[string]interface{}{
		"resultCode": string(err.Code),
		"resultKind": string(err.Kind),
	}
	for k, v := range err.Metadata {
		vars[k] = v
	}
	return &BPMNError{
		Code:           BPMNErrorCode(err.Kind),
		Message:        err.Message,
		Details:        err.Details,
		Retryable:      err.Retryable,
		Retries:        GetRetryCount(err.Code),
		ErrorVariables: vars,
	}
}
