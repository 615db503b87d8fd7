package ble

import (
	"reflect"
	"strings"
	"testing"
)

func TestBuildAdvPayloadFraming(t *testing.T) {
	got, err := BuildAdvPayload("1000")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"09", "02", "01", "06", "05", "16", "F0", "08", "10", "00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("payload = %v, want %v", got, want)
	}
}

func TestBuildAdvPayloadLengths(t *testing.T) {
	// 24 data bytes, the size the panel's fan remotes use.
	data := "100005c701c70fcd3c404b93b840d19185c8d1457459a1eb"
	got, err := BuildAdvPayload(data)
	if err != nil {
		t.Fatal(err)
	}

	// significant-octet count + flags(3) + len + service data(3 + 24)
	if len(got) != 32 {
		t.Fatalf("token count = %d, want 32", len(got))
	}
	if got[0] != "1F" {
		t.Fatalf("significant-octet count = %s, want 1F", got[0])
	}
	if got[4] != "1B" {
		t.Fatalf("service-data length = %s, want 1B", got[4])
	}
	if got[5] != "16" || got[6] != "F0" || got[7] != "08" {
		t.Fatalf("service-data header = %v", got[5:8])
	}
}

func TestBuildAdvPayloadNormalizesCase(t *testing.T) {
	lower, err := BuildAdvPayload("ab01ff")
	if err != nil {
		t.Fatal(err)
	}
	upper, err := BuildAdvPayload("AB01FF")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(lower, upper) {
		t.Fatalf("case-sensitive framing: %v vs %v", lower, upper)
	}
}

func TestBuildAdvPayloadRejectsBadInput(t *testing.T) {
	for _, data := range []string{"", "123", "zz", "0g"} {
		if _, err := BuildAdvPayload(data); err == nil {
			t.Errorf("BuildAdvPayload(%q) accepted invalid input", data)
		}
	}
}

func TestParseHciconfig(t *testing.T) {
	out := `hci0:	Type: Primary  Bus: USB
	BD Address: 00:1A:7D:DA:71:13  ACL MTU: 310:10  SCO MTU: 64:8
	UP RUNNING
	RX bytes:1050 acl:0 sco:0 events:47 errors:0

hci1:	Type: Primary  Bus: UART
	BD Address: B8:27:EB:45:52:A1  ACL MTU: 1021:8  SCO MTU: 64:1
	DOWN
`
	got := parseHciconfig(out)
	if len(got) != 2 {
		t.Fatalf("parsed %d interfaces, want 2", len(got))
	}
	if got[0].Name != "hci0" || got[0].Status != "UP" || got[0].MAC != "00:1A:7D:DA:71:13" {
		t.Fatalf("hci0 = %+v", got[0])
	}
	if got[1].Name != "hci1" || got[1].Status != "DOWN" {
		t.Fatalf("hci1 = %+v", got[1])
	}
}

func TestParseBluetoothctl(t *testing.T) {
	out := `Controller DC:A6:32:01:02:03 raspberrypi [default]
Controller 00:1A:7D:DA:71:13 dongle
`
	got := parseBluetoothctl(out)
	if len(got) != 2 {
		t.Fatalf("parsed %d controllers, want 2", len(got))
	}
	if got[0].Name != "hci0" || got[0].MAC != "DC:A6:32:01:02:03" {
		t.Fatalf("first = %+v", got[0])
	}
	if !strings.Contains(got[0].Description, "raspberrypi") {
		t.Fatalf("description = %q", got[0].Description)
	}
	if got[1].Name != "hci1" {
		t.Fatalf("second name = %s", got[1].Name)
	}
}

func TestParseHciconfigEmpty(t *testing.T) {
	if got := parseHciconfig(""); len(got) != 0 {
		t.Fatalf("parsed %d interfaces from empty output", len(got))
	}
}
