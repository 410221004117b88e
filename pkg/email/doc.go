// Package email delivers rendered messages through Postmark
// (github.com/mrz1836/postmark) or, in development, to files on disk.
//
//	sender, err := email.NewSender(cfg.Email)
//	err = sender.SendEmail(ctx, email.Message{
//	    To:       "new.member@example.com",
//	    Subject:  "You're invited to Acme",
//	    HTMLBody: html,
//	    Tag:      "invitation",
//	})
package email
