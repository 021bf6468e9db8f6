package accounts

// Caller facing messages.
const (
	MsgMissingFields        = "Missing required fields"
	MsgInvalidEmail         = "Invalid email address"
	MsgEmailTaken           = "This email is already registered or unavailable"
	MsgPasswordMismatch     = "Passwords do not match"
	MsgInvalidCredentials   = "Incorrect email or password"
	MsgEmailNotVerified     = "Please verify your email before logging in"
	MsgInvalidVerification  = "Invalid verification token"
	MsgUserNotFound         = "User not found"
	MsgNothingToUpdate      = "Provide a name or an email to update"
	MsgSameName             = "The new name cannot be the same as the old name"
	MsgSameEmail            = "The new email cannot be the same as the old email"
	MsgOldPasswordIncorrect = "Old password is incorrect"
	MsgSamePassword         = "The new password cannot be the same as the old password"
	MsgNewPasswordMismatch  = "The new password and the confirm password do not match"

	MsgAccountCreated   = "Account Created"
	MsgLoginSuccess     = "Login success"
	MsgEmailVerified    = "Email verification successful"
	MsgVerificationSent = "If the account exists and is not yet verified, a new verification email has been sent"
	MsgUserUpdated      = "User updated successfully"
	MsgPasswordUpdated  = "Password updated successfully"
	MsgAccountDeleted   = "Account successfully deleted"
	MsgLoggedOut        = "Logged out successfully"
)
