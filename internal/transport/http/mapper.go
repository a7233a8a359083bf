package http

import (
	"encoding/json"

	"github.com/avdeev/codepair-server/internal/core"
	"github.com/avdeev/codepair-server/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		return &core.Command{
			Kind:       core.CommandJoinRoom,
			Room:       join.Room,
			SignalAddr: join.PeerID,
			Name:       join.Name,
		}, nil, nil
	case proto.InboundTypeLeave:
		var leave proto.LeaveData
		if err := json.Unmarshal(inbound.Data, &leave); err != nil {
			return nil, nil, err
		}
		if leave.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandLeaveRoom,
			Room: leave.Room,
		}, nil, nil
	case proto.InboundTypeCode:
		var change proto.CodeData
		if err := json.Unmarshal(inbound.Data, &change); err != nil {
			return nil, nil, err
		}
		if change.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandCodeChange,
			Room: change.Room,
			Code: change.Code,
		}, nil, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventCodeUpdate:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventCodeUpdate,
			Data: proto.CodeUpdateData{
				Room: event.Room,
				From: event.From,
				Code: event.Code,
			},
		}
	case core.EventPeerJoined:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUserConnected,
			Data:  peerData(event),
		}
	case core.EventPeerPresent:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUserPresent,
			Data:  peerData(event),
		}
	case core.EventPeerLeft:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUserDisconnected,
			Data:  peerData(event),
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func peerData(event *core.Event) proto.PeerData {
	data := proto.PeerData{Room: event.Room}
	if event.Peer != nil {
		data.ID = event.Peer.ID
		data.PeerID = event.Peer.SignalAddr
		data.Name = event.Peer.Name
	}
	return data
}
