package handlers

import (
	"fmt"
	"net/url"
)

// verificationSuccessPage is shown when the verification link is opened in a
// browser. It counts down and then tries the mobile deep link, with manual
// instructions as fallback.
func verificationSuccessPage(email, role, appScheme string) string {
	deepLink := fmt.Sprintf("%s://login?verified=true&email=%s", appScheme, url.QueryEscape(email))

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Email Verified Successfully</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); margin: 0; padding: 20px; min-height: 100vh; display: flex; align-items: center; justify-content: center; }
  .container { background: white; padding: 40px; border-radius: 20px; box-shadow: 0 20px 40px rgba(0,0,0,0.1); text-align: center; max-width: 400px; width: 100%%; }
  .success-icon { font-size: 64px; margin-bottom: 20px; }
  h1 { color: #2d3748; margin-bottom: 16px; font-size: 24px; }
  p { color: #4a5568; margin-bottom: 24px; line-height: 1.6; }
  .redirect-info { background: #f7fafc; padding: 16px; border-radius: 8px; margin-bottom: 20px; border-left: 4px solid #48bb78; }
  .countdown { font-weight: bold; color: #2b6cb0; }
  .manual-link { display: inline-block; background: #4299e1; color: white; padding: 12px 24px; text-decoration: none; border-radius: 8px; margin-top: 16px; }
</style>
</head>
<body>
  <div class="container">
    <div class="success-icon">&#9989;</div>
    <h1>Email Verified Successfully!</h1>
    <p>Your %s account has been verified. You can now log in to your CRM account.</p>
    <div class="redirect-info">
      <p>Redirecting to login in <span class="countdown" id="countdown">5</span> seconds...</p>
    </div>
    <p><strong>Account:</strong> %s</p>
    <a href="#" class="manual-link" onclick="redirectToApp()">Login Now</a>
  </div>
  <script>
    let countdown = 5;
    const countdownElement = document.getElementById('countdown');
    const timer = setInterval(() => {
      countdown--;
      countdownElement.textContent = countdown;
      if (countdown <= 0) {
        clearInterval(timer);
        redirectToApp();
      }
    }, 1000);
    function redirectToApp() {
      window.location.href = '%s';
      setTimeout(() => {
        document.querySelector('.container').innerHTML =
          '<div class="success-icon">&#128241;</div>' +
          '<h1>Return to Your App</h1>' +
          '<p>Please return to your CRM mobile app and log in. Your account is now ready to use.</p>';
      }, 2000);
    }
  </script>
</body>
</html>`, role, email, deepLink)
}

func verificationFailedPage() string {
	return `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Verification Failed</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); margin: 0; padding: 20px; min-height: 100vh; display: flex; align-items: center; justify-content: center; }
  .container { background: white; padding: 40px; border-radius: 20px; box-shadow: 0 20px 40px rgba(0,0,0,0.1); text-align: center; max-width: 400px; width: 100%; }
  .error-icon { font-size: 64px; margin-bottom: 20px; }
  h1 { color: #2d3748; margin-bottom: 16px; font-size: 24px; }
  p { color: #4a5568; line-height: 1.6; }
</style>
</head>
<body>
  <div class="container">
    <div class="error-icon">&#10060;</div>
    <h1>Verification Failed</h1>
    <p>This verification link is invalid or has expired. Open the app and request a new verification email.</p>
  </div>
</body>
</html>`
}
