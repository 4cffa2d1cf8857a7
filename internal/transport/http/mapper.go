package http

import (
	"encoding/json"

	"github.com/cosmicwatch/cosmicwatch-server/internal/proto"
	"github.com/cosmicwatch/cosmicwatch-server/internal/relay"
)

func inboundToCommand(inbound proto.Inbound) (*relay.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoinRoom:
		var join proto.JoinRoomData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.Room == "" {
			return nil, &proto.Error{Code: proto.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		return &relay.Command{
			Kind: relay.CommandJoinRoom,
			Room: join.Room,
		}, nil, nil
	case proto.InboundTypeSendMessage:
		var msg proto.ChatMessage
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, nil, err
		}
		if msg.Room == "" {
			return nil, &proto.Error{Code: proto.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		return &relay.Command{
			Kind: relay.CommandSendMessage,
			Room: msg.Room,
			Message: relay.Message{
				Room:        msg.Room,
				Author:      msg.Author,
				Body:        msg.Message,
				DisplayTime: msg.Time,
			},
		}, nil, nil
	default:
		return nil, &proto.Error{Code: proto.ErrCodeInvalidMessage, Msg: "unknown message type"}, nil
	}
}

func outboundFromMessage(msg relay.Message) proto.Outbound {
	return proto.Outbound{
		Type: proto.OutboundTypeReceiveMessage,
		Data: proto.ChatMessage{
			Room:    msg.Room,
			Author:  msg.Author,
			Message: msg.Body,
			Time:    msg.DisplayTime,
		},
	}
}
