package mailer

import "fmt"

// Subjects used by the auth flow.
const (
	SubjectVerification = "Email Verification - CRM App"
	SubjectWelcome      = "Welcome to CRM App!"
)

// VerificationEmail renders the HTML body carrying the verification link.
func VerificationEmail(name, verificationURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
  .container { background: #f9f9f9; padding: 30px; border-radius: 10px; }
  .logo { font-size: 28px; font-weight: bold; color: #6200ee; text-align: center; margin-bottom: 20px; }
  .content { background: white; padding: 30px; border-radius: 8px; }
  .button { display: inline-block; background: #6200ee; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; font-weight: bold; margin: 20px 0; }
  .warning { background: #fff3cd; border: 1px solid #ffeaa7; padding: 12px; border-radius: 5px; font-size: 14px; }
  .footer { text-align: center; color: #666; font-size: 14px; margin-top: 20px; }
</style>
</head>
<body>
  <div class="container">
    <div class="logo">CRM App</div>
    <div class="content">
      <h2>Hi %s,</h2>
      <p>Thanks for signing up. Please verify your email address to activate your account:</p>
      <p style="text-align:center;"><a class="button" href="%s">Verify Email Address</a></p>
      <p>Or copy this link into your browser:</p>
      <p style="word-break: break-all;">%s</p>
      <div class="warning">This link expires in 24 hours. If you did not create an account, you can ignore this email.</div>
    </div>
    <div class="footer">CRM App &mdash; manage your customers and leads on the go.</div>
  </div>
</body>
</html>`, name, verificationURL, verificationURL)
}

// WelcomeEmail renders the post-verification welcome body.
func WelcomeEmail(name string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
  .container { background: #f9f9f9; padding: 30px; border-radius: 10px; }
  .logo { font-size: 28px; font-weight: bold; color: #6200ee; text-align: center; margin-bottom: 20px; }
  .content { background: white; padding: 30px; border-radius: 8px; }
  .footer { text-align: center; color: #666; font-size: 14px; margin-top: 20px; }
</style>
</head>
<body>
  <div class="container">
    <div class="logo">CRM App</div>
    <div class="content">
      <h2>Welcome, %s!</h2>
      <p>Your email has been verified and your account is ready.</p>
      <p>Log in to start tracking customers, leads and your sales pipeline.</p>
    </div>
    <div class="footer">CRM App &mdash; manage your customers and leads on the go.</div>
  </div>
</body>
</html>`, name)
}
