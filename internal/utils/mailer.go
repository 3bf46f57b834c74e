package utils

import (
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/config"
	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
)

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	cfg config.SMTPConfig
}

// NewMailer returns nil when SMTP_HOST is not set, callers treat a nil
// Mailer as "mail disabled".
func NewMailer(cfg config.SMTPConfig) *Mailer {
	if cfg.Host == "" {
		return nil
	}
	return &Mailer{cfg: cfg}
}

func (m *Mailer) SendOrderConfirmation(to string, order *models.Order) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(fmt.Sprintf("ご注文ありがとうございます（注文番号 %s）", order.OrderNumber))
	msg.SetBodyString(mail.TypeTextHTML, orderConfirmationHTML(order))

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.cfg.User),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return err
	}
	return client.DialAndSend(msg)
}

func orderConfirmationHTML(order *models.Order) string {
	var rows strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&rows, `
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>¥%d</td>
				<td>¥%d</td>
			</tr>`, item.ProductName, item.Quantity, item.UnitPrice, item.UnitPrice*int64(item.Quantity))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
	<h2>ご注文を承りました</h2>
	<p>注文番号: <strong>%s</strong></p>
	<table border="1" cellpadding="6" cellspacing="0">
		<tr><th>商品</th><th>数量</th><th>単価</th><th>小計</th></tr>
		%s
	</table>
	<p>割引: -¥%d</p>
	<p>消費税: ¥%d</p>
	<p>送料: ¥%d</p>
	<p><strong>合計: ¥%d</strong></p>
</body>
</html>`, order.OrderNumber, rows.String(), order.DiscountTotal, order.Tax, order.ShippingFee, order.Total)
}
