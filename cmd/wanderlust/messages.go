package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/wanderlust-travel/wanderlust-go/pkg/api"
)

func (a *app) cmdMessages(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("messages needs a subcommand: list, get, send, delete")
	}

	// Every message operation requires a logged-in account, any role.
	ok, err := a.requireAccess(ctx, nil, "/messages")
	if !ok {
		return err
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		return a.messagesList(ctx, rest)
	case "get":
		return a.messagesGet(ctx, rest)
	case "send":
		return a.messagesSend(ctx, rest)
	case "delete":
		return a.messagesDelete(ctx, rest)
	default:
		return fmt.Errorf("unknown messages subcommand %q", sub)
	}
}

func (a *app) messagesList(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("messages list", pflag.ContinueOnError)
	typ := fs.String("type", "", "filter by type: inquiry, reply, notification")
	page := fs.Int("page", 0, "page number")
	limit := fs.Int("limit", 0, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := a.client.ListMessages(ctx, api.MessageFilter{
		Type:  api.MessageType(*typ),
		Page:  *page,
		Limit: *limit,
	})
	if err != nil {
		return err
	}

	if len(result.Data) == 0 {
		fmt.Println("no messages")
		return nil
	}

	me := a.session.Snapshot().User
	for _, m := range result.Data {
		peer := m.Sender
		direction := "from"
		if me != nil && m.Sender.ID == me.ID {
			peer = m.Recipient
			direction = "to"
		}
		marker := " "
		if !m.IsRead {
			marker = "*"
		}
		fmt.Printf("%s %s  %-12s %s %s: %s\n",
			marker, m.ID, m.Type, direction, peer.Name, m.Subject)
	}

	p := result.Pagination
	if p.Pages > 1 {
		fmt.Printf("\npage %d of %d (%d messages)\n", p.Page, p.Pages, p.Total)
	}
	return nil
}

func (a *app) messagesGet(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: messages get <id>")
	}

	m, err := a.client.GetMessage(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("subject: %s\n", m.Subject)
	fmt.Printf("from:    %s <%s>\n", m.Sender.Name, m.Sender.Email)
	fmt.Printf("to:      %s <%s>\n", m.Recipient.Name, m.Recipient.Email)
	fmt.Printf("type:    %s\n", m.Type)
	if m.Hotel != nil {
		fmt.Printf("hotel:   %s (%s)\n", m.Hotel.Name, m.Hotel.ID)
	}
	fmt.Printf("sent:    %s\n\n%s\n", m.CreatedAt.Format("2006-01-02 15:04"), m.Content)
	return nil
}

func (a *app) messagesSend(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("messages send", pflag.ContinueOnError)
	hotel := fs.String("hotel", "", "hotel the inquiry is about")
	subject := fs.String("subject", "", "message subject")
	content := fs.String("content", "", "message body")
	typ := fs.String("type", string(api.MessageTypeInquiry), "message type")
	parent := fs.String("parent", "", "message being replied to")
	if err := fs.Parse(args); err != nil {
		return err
	}

	msgType := api.MessageType(*typ)
	if *parent != "" && !fs.Changed("type") {
		msgType = api.MessageTypeReply
	}

	m, err := a.client.SendMessage(ctx, api.SendMessageParams{
		HotelID:         *hotel,
		Subject:         *subject,
		Content:         *content,
		Type:            msgType,
		ParentMessageID: *parent,
	})
	if err != nil {
		return err
	}
	fmt.Printf("sent %s to %s (%s)\n", m.Type, m.Recipient.Name, m.ID)
	return nil
}

func (a *app) messagesDelete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: messages delete <id>")
	}
	if err := a.client.DeleteMessage(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println("message deleted")
	return nil
}
