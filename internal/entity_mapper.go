package internal

import (
	"chat-store/domain"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const detailWidth = 60

// EntityMapper decodes any stored record into an inspector row.
// Records that fail to decode fall back to DefaultMapper.
func EntityMapper(key string, val []byte) InspectRow {
	row := DefaultMapper(key, val)
	switch row.Family {
	case "message":
		var message domain.Message
		if json.Unmarshal(val, &message) != nil {
			return row
		}
		row.EntityID = message.ID
		row.Parent = message.Channel
		switch {
		case message.System != nil && message.System.SystemEvent != nil:
			row.Detail = "[" + string(message.System.Type()) + "]"
		case message.Content != nil:
			row.Detail = *message.Content
		default:
			row.Detail = fmt.Sprintf("%d embed(s)", len(message.Embeds))
		}
		if len(message.Reactions) > 0 {
			row.Detail += fmt.Sprintf(" (%d reaction(s))", len(message.Reactions))
		}
	case "server":
		var server domain.Server
		if json.Unmarshal(val, &server) != nil {
			return row
		}
		row.EntityID = server.ID
		row.Parent = server.Owner
		row.Detail = fmt.Sprintf("%s, %d channel(s), %d role(s)", server.Name, len(server.Channels), len(server.Roles))
	case "channel":
		var channel domain.Channel
		if json.Unmarshal(val, &channel) != nil {
			return row
		}
		row.EntityID = channel.ID
		row.Parent = channel.Server
		row.Detail = fmt.Sprintf("#%s (%s)", channel.Name, channel.ChannelType)
	case "member":
		var member domain.Member
		if json.Unmarshal(val, &member) != nil {
			return row
		}
		row.EntityID = member.ID.User
		row.Parent = member.ID.Server
		row.Detail = fmt.Sprintf("%s, roles [%s]", lo.FromPtrOr(member.Nickname, "-"), strings.Join(member.Roles, " "))
	case "bot":
		var bot domain.Bot
		if json.Unmarshal(val, &bot) != nil {
			return row
		}
		row.EntityID = bot.ID
		row.Parent = bot.Owner
		row.Detail = "public=" + strconv.FormatBool(bot.Public)
	case "bot_owner", "channel_server":
		if scope, id, ok := splitScoped(strings.TrimPrefix(key, row.Family+":")); ok {
			row.Parent = scope
			row.EntityID = id
		}
		row.Detail = "index"
	case "bot_token":
		row.Detail = "index"
	}
	row.Detail = truncate(row.Detail, detailWidth)
	return row
}

// splitScoped reads "{len}:{scope}:{id}", the tail of a composite key.
func splitScoped(rest string) (scope, id string, ok bool) {
	size, tail, found := strings.Cut(rest, ":")
	if !found {
		return "", "", false
	}
	n, err := strconv.Atoi(size)
	if err != nil || n < 0 || len(tail) < n+1 || tail[n] != ':' {
		return "", "", false
	}
	return tail[:n], tail[n+1:], true
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
