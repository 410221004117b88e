package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error records err under "error". A nil error yields an empty Attr, which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups the non-nil errors under "errors".
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

func optional(key string, v any) slog.Attr {
	if v == nil {
		return slog.Attr{}
	}
	return slog.Any(key, v)
}

// UserID records the user identifier under "user_id".
func UserID(id any) slog.Attr { return optional("user_id", id) }

// OrganizationID records the tenant identifier under "organization_id".
func OrganizationID(id any) slog.Attr { return optional("organization_id", id) }

// MembershipID records a membership identifier under "membership_id".
func MembershipID(id any) slog.Attr { return optional("membership_id", id) }

// RoleID records a role identifier under "role_id".
func RoleID(id any) slog.Attr { return optional("role_id", id) }

// Role records a role name under "role".
func Role(name string) slog.Attr { return slog.String("role", name) }

// SessionID records a session (token) identifier under "session_id".
func SessionID(id string) slog.Attr { return slog.String("session_id", id) }

// RequestID records the request identifier under "request_id".
func RequestID(id string) slog.Attr { return slog.String("request_id", id) }

// Permission records a single required permission under "permission".
func Permission(p string) slog.Attr { return slog.String("permission", p) }

// Permissions records a permission list under "permissions".
func Permissions(ps []string) slog.Attr { return slog.Any("permissions", ps) }

// Component records the emitting component under "component".
func Component(name string) slog.Attr { return slog.String("component", name) }

// Event records the event name under "event".
func Event(name string) slog.Attr { return slog.String("event", name) }

// Duration records an elapsed time under "duration".
func Duration(d any) slog.Attr { return slog.Any("duration", d) }
