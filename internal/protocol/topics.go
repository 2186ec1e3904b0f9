package protocol

// Each role publishes on its own sub-topic of the room and subscribes to
// the other's, so neither peer ever receives its own echo.

func HostTopic(room string) string {
	return "soularena/" + room + "/host"
}

func ClientTopic(room string) string {
	return "soularena/" + room + "/client"
}
