package notification

import (
	"context"
	"errors"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

var ErrNoPhone = errors.New("recipient has no phone number")

// TwilioNotifier sends events as SMS, or WhatsApp for E.164 numbers when a
// WhatsApp sender is configured.
type TwilioNotifier struct {
	client   *twilio.RestClient
	from     string
	whatsApp bool
	log      *zap.Logger
}

func NewTwilioNotifier(accountSID, authToken, from string, whatsApp bool, log *zap.Logger) *TwilioNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &TwilioNotifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from:     from,
		whatsApp: whatsApp,
		log:      log,
	}
}

func (n *TwilioNotifier) Send(ctx context.Context, ev Event) error {
	phone := strings.TrimSpace(ev.To.Phone)
	if phone == "" {
		return ErrNoPhone
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	to, from := phone, n.from
	if n.whatsApp && strings.HasPrefix(phone, "+") {
		to = "whatsapp:" + phone
		from = "whatsapp:" + n.from
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(Message(ev))

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		return err
	}

	if resp.Sid != nil {
		n.log.Debug("sms sent", zap.String("event", ev.Type), zap.String("sid", *resp.Sid))
	}
	return nil
}
