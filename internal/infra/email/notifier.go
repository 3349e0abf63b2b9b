package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// SMTPNotifier mails an operator when cameras are still unresolved after the
// tracking deadline.
type SMTPNotifier struct {
	host   string
	port   int
	from   string
	to     string
	logger *zap.Logger
}

func NewSMTPNotifier(host string, port int, from, to string, logger *zap.Logger) *SMTPNotifier {
	return &SMTPNotifier{host: host, port: port, from: from, to: to, logger: logger}
}

func (n *SMTPNotifier) NotifyUnresolved(_ context.Context, runID, targetDate string, cameras []string) error {
	addr := fmt.Sprintf("%s:%d", n.host, n.port)

	subject := fmt.Sprintf("Frigate export backup: unresolved cameras [run %s]", runID)
	body := fmt.Sprintf(
		"Hello,\r\n\r\n"+
			"The export backup run for %s timed out before every camera's export completed.\r\n\r\n"+
			"Run ID: %s\r\n"+
			"Unresolved cameras: %s\r\n\r\n"+
			"Completed files were still moved; the listed cameras may need a manual re-run.\r\n\r\n"+
			"-- frigate-exports-backup",
		targetDate, runID, strings.Join(cameras, ", "),
	)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		n.from, n.to, subject, body,
	)

	err := smtp.SendMail(addr, nil, n.from, []string{n.to}, []byte(msg))
	if err != nil {
		n.logger.Error("sending unresolved-camera notification failed",
			zap.String("to", n.to),
			zap.String("run_id", runID),
			zap.Error(err),
		)
		return fmt.Errorf("send email: %w", err)
	}

	n.logger.Info("unresolved-camera notification sent",
		zap.String("to", n.to),
		zap.String("run_id", runID),
	)
	return nil
}
