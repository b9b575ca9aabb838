package greenapi

// Webhook types delivered by Green API that the bot reacts to.
const (
	WebhookIncoming = "incomingMessageReceived"
	WebhookOutgoing = "outgoingMessageReceived"
)

// Message types carried in messageData.typeMessage.
const (
	TypeTextMessage         = "textMessage"
	TypeExtendedTextMessage = "extendedTextMessage"
	TypeImageMessage        = "imageMessage"
	TypeDocumentMessage     = "documentMessage"

	TypeButtonsResponse            = "buttonsResponseMessage"
	TypeTemplateButtonsReply       = "templateButtonsReplyMessage"
	TypeInteractiveButtonsResponse = "interactiveButtonsResponse"
)

type SenderData struct {
	ChatID     string `json:"chatId"`
	Sender     string `json:"sender"`
	SenderName string `json:"senderName"`
}

type TextMessageData struct {
	TextMessage string `json:"textMessage"`
}

type ExtendedTextMessageData struct {
	Text string `json:"text"`
}

type FileMessageData struct {
	DownloadURL string `json:"downloadUrl"`
	FileName    string `json:"fileName"`
	Caption     string `json:"caption"`
	MimeType    string `json:"mimeType"`
}

type ButtonsResponse struct {
	SelectedButtonID   string `json:"selectedButtonId"`
	SelectedID         string `json:"selectedId"`
	SelectedButtonText string `json:"selectedButtonText"`
}

type MessageData struct {
	TypeMessage                 string                   `json:"typeMessage"`
	TextMessageData             *TextMessageData         `json:"textMessageData,omitempty"`
	ExtendedTextMessageData     *ExtendedTextMessageData `json:"extendedTextMessageData,omitempty"`
	FileMessageData             *FileMessageData         `json:"fileMessageData,omitempty"`
	ImageMessageData            *FileMessageData         `json:"imageMessageData,omitempty"`
	ButtonsResponseMessage      *ButtonsResponse         `json:"buttonsResponseMessage,omitempty"`
	TemplateButtonsReplyMessage *ButtonsResponse         `json:"templateButtonsReplyMessage,omitempty"`
	InteractiveButtonsResponse  *ButtonsResponse         `json:"interactiveButtonsResponse,omitempty"`
}

// Notification is one chat event as delivered by receiveNotification or the
// webhook endpoint.
type Notification struct {
	TypeWebhook string      `json:"typeWebhook"`
	IDMessage   string      `json:"idMessage"`
	Timestamp   int64       `json:"timestamp"`
	SenderData  SenderData  `json:"senderData"`
	MessageData MessageData `json:"messageData"`
}

// Sender returns the chat identifier acting as the user's primary key.
func (n *Notification) Sender() string {
	if n.SenderData.Sender != "" {
		return n.SenderData.Sender
	}
	if n.SenderData.ChatID != "" {
		return n.SenderData.ChatID
	}
	return "unknown"
}

// ChatID returns the chat to answer into.
func (n *Notification) ChatID() string {
	if n.SenderData.ChatID != "" {
		return n.SenderData.ChatID
	}
	return n.SenderData.Sender
}

// Text returns the message text regardless of the payload flavour.
func (n *Notification) Text() string {
	if d := n.MessageData.TextMessageData; d != nil && d.TextMessage != "" {
		return d.TextMessage
	}
	if d := n.MessageData.ExtendedTextMessageData; d != nil && d.Text != "" {
		return d.Text
	}
	return ""
}

// ButtonID returns the pressed button id across the three reply-button
// payload variants, or "".
func (n *Notification) ButtonID() string {
	for _, b := range []*ButtonsResponse{
		n.MessageData.InteractiveButtonsResponse,
		n.MessageData.ButtonsResponseMessage,
		n.MessageData.TemplateButtonsReplyMessage,
	} {
		if b == nil {
			continue
		}
		if b.SelectedButtonID != "" {
			return b.SelectedButtonID
		}
		if b.SelectedID != "" {
			return b.SelectedID
		}
	}
	return ""
}

// IsMedia reports whether the message carries an image or document.
func (n *Notification) IsMedia() bool {
	t := n.MessageData.TypeMessage
	return t == TypeImageMessage || t == TypeDocumentMessage
}

// Media returns the attachment payload, checking both fileMessageData and
// imageMessageData, or nil.
func (n *Notification) Media() *FileMessageData {
	if n.MessageData.FileMessageData != nil {
		return n.MessageData.FileMessageData
	}
	return n.MessageData.ImageMessageData
}

// Button is an outbound interactive reply button.
type Button struct {
	ButtonID   string `json:"buttonId"`
	ButtonText string `json:"buttonText"`
}

// Receipt wraps one polled notification with its ack id.
type Receipt struct {
	ReceiptID int64         `json:"receiptId"`
	Body      *Notification `json:"body"`
}
