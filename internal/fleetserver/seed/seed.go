// Package seed holds the fixed fleet the server boots with.
package seed

import (
	fleetv1 "github.com/luxfleet-io/luxfleet/pkg/apis/fleet/v1alpha1"
)

const optionCodes = "AD15,MDL3,PBSB,RENA,BT37,ID3W,RF3G,S3PB,DRLH,APF0,COUS,BC3B,CH07,PC30,FC3P,FG31,GLFR,HL31,HM31,IL31,LLP1,LP01,MR31,FM3B,RS3H,SA3P,STCP,SC04,ST01,SU3C,T3CA,TW00,TM00,UT3P,WR00,AU3P,APH3,AF00,ZCST,MI00,CDM0"

// Fleet returns the seed vehicles. Ids and guids are distinct namespaces;
// tests pin both.
func Fleet() []fleetv1.VehicleDescriptor {
	black := "Black"

	return []fleetv1.VehicleDescriptor{
		{
			ID:              123456789,
			VehicleID:       999456789,
			VIN:             "5YJ3E1EA7JF000000",
			DisplayName:     "My Model 3",
			OptionCodes:     optionCodes,
			Color:           &black,
			Tokens:          []string{"abcdef1234567890"},
			State:           fleetv1.OnlineStateOnline,
			InService:       false,
			IDS:             "12345678901234567",
			CalendarEnabled: true,
			APIVersion:      6,
		},
		{
			ID:              123456000,
			VehicleID:       999456000,
			VIN:             "5YJ3E1EA7JF000001",
			DisplayName:     "My Other Model 3",
			OptionCodes:     optionCodes,
			Color:           &black,
			Tokens:          []string{"abcdef1234567890"},
			State:           fleetv1.OnlineStateOnline,
			InService:       false,
			IDS:             "12345678901234568",
			CalendarEnabled: true,
			APIVersion:      6,
		},
	}
}
