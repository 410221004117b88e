package tenancy

import "errors"

var (
	ErrOrganizationNotFound = errors.New("tenancy.organization_not_found")
	ErrSlugTaken            = errors.New("tenancy.slug_taken")
	ErrInvalidSlug          = errors.New("tenancy.invalid_slug")
	ErrInvalidName          = errors.New("tenancy.invalid_name")
	ErrInvalidPlan          = errors.New("tenancy.invalid_plan")
	ErrOwnerRequired        = errors.New("tenancy.owner_required")
	ErrInviteCodeConflict   = errors.New("tenancy.invite_code_conflict")
	ErrInvalidInviteCode    = errors.New("tenancy.invalid_invite_code")

	ErrRoleNotFound        = errors.New("tenancy.role_not_found")
	ErrRoleNameTaken       = errors.New("tenancy.role_name_taken")
	ErrInvalidRoleName     = errors.New("tenancy.invalid_role_name")
	ErrInvalidPermissions  = errors.New("tenancy.invalid_permissions")
	ErrSystemRoleImmutable = errors.New("tenancy.system_role_immutable")
	ErrRoleInUse           = errors.New("tenancy.role_in_use")

	ErrMembershipNotFound  = errors.New("tenancy.membership_not_found")
	ErrAlreadyMember       = errors.New("tenancy.already_member")
	ErrInvalidTransition   = errors.New("tenancy.invalid_transition")
	ErrLastOwner           = errors.New("tenancy.last_owner")
	ErrMemberLimitReached  = errors.New("tenancy.member_limit_reached")
	ErrInvitationsDisabled = errors.New("tenancy.invitations_disabled")
	ErrInvalidEmail        = errors.New("tenancy.invalid_email")

	ErrInvalidCatalog = errors.New("tenancy.invalid_role_catalog")
)
