package invites

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// BuildInviteEmail creates the invite email for one recipient.
func BuildInviteEmail(toEmail, inviterName, fromEmail, fromName, baseURL string) *mail.SGMailV3 {
	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail("", toEmail)

	inviter := inviterName
	if inviter == "" {
		inviter = "A friend"
	}
	subject := fmt.Sprintf("%s invited you to Tiny Meal Planner", inviter)

	plainTextContent := fmt.Sprintf("%s thinks you'd like Tiny Meal Planner.\n\nPlan a week of meals in seconds and get one consolidated shopping list:\n\n%s\n\nIf you weren't expecting this email, you can safely ignore it.", inviter, baseURL)

	htmlContent := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>You're invited to Tiny Meal Planner</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f5f5f5;">
    <table role="presentation" width="100%%" cellpadding="0" cellspacing="0" style="background-color: #f5f5f5; padding: 40px 20px;">
        <tr>
            <td align="center">
                <table role="presentation" width="600" cellpadding="0" cellspacing="0" style="background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
                    <tr>
                        <td style="padding: 40px 40px 20px 40px; text-align: center;">
                            <h1 style="margin: 0; color: #333333; font-size: 28px; font-weight: 600;">%s invited you</h1>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 0 40px 20px 40px; text-align: center; color: #666666; font-size: 16px; line-height: 24px;">
                            <p style="margin: 0 0 20px 0;">Plan a week of meals in seconds and get one consolidated shopping list.</p>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 0 40px 30px 40px; text-align: center;">
                            <a href="%s" style="display: inline-block; padding: 14px 32px; background-color: #4F46E5; color: #ffffff; text-decoration: none; border-radius: 6px; font-size: 16px; font-weight: 600;">Try Tiny Meal Planner</a>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 20px 40px 40px 40px; text-align: center; color: #999999; font-size: 12px; line-height: 18px; border-top: 1px solid #eeeeee;">
                            <p style="margin: 0;">If you weren't expecting this email, you can safely ignore it.</p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
`, inviter, baseURL)

	return mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)
}
