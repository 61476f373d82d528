package simulator

import (
	"time"

	fleetv1 "github.com/luxfleet-io/luxfleet/pkg/apis/fleet/v1alpha1"
)

// newVehicleData builds the authoritative snapshot a fresh simulator starts
// from. The values mimic a real car's answer closely enough for clients that
// parse the whole payload.
func newVehicleData(desc *fleetv1.VehicleDescriptor, now time.Time) *fleetv1.VehicleData {
	ts := now.Unix()

	return &fleetv1.VehicleData{
		ID:              desc.ID,
		UserID:          800001,
		VehicleID:       desc.VehicleID,
		VIN:             "TEST00000000VIN01",
		Color:           nil,
		AccessType:      "OWNER",
		GranularAccess:  fleetv1.GranularAccess{HidePrivate: false},
		Tokens:          []string{"4f993c5b9e2b937b", "7a3153b1bbb48a96"},
		State:           fleetv1.OnlineStateOnline,
		InService:       false,
		IDS:             desc.IDS,
		CalendarEnabled: true,
		APIVersion:      54,

		ChargeState: &fleetv1.ChargeState{
			BatteryHeaterOn:                false,
			BatteryLevel:                   42,
			BatteryRange:                   133.99,
			ChargeAmps:                     48,
			ChargeCurrentRequest:           48,
			ChargeCurrentRequestMax:        48,
			ChargeEnableRequest:            true,
			ChargeEnergyAdded:              48.45,
			ChargeLimitSoc:                 0,
			ChargeLimitSocMax:              100,
			ChargeLimitSocMin:              50,
			ChargeLimitSocStd:              90,
			ChargeMilesAddedIdeal:          202.0,
			ChargeMilesAddedRated:          202.0,
			ChargePortColdWeatherMode:      ptr(false),
			ChargePortColor:                "<invalid>",
			ChargePortDoorOpen:             false,
			ChargePortLatch:                "Engaged",
			ChargeRate:                     nil,
			ChargerActualCurrent:           0,
			ChargerPhases:                  nil,
			ChargerPilotCurrent:            48,
			ChargerPower:                   0,
			ChargerVoltage:                 2,
			ChargingState:                  fleetv1.ChargingStateDisconnected,
			ConnChargeCable:                "<invalid>",
			EstBatteryRange:                143.88,
			FastChargerBrand:               "<invalid>",
			FastChargerPresent:             false,
			FastChargerType:                "<invalid>",
			IdealBatteryRange:              133.99,
			ManagedChargingActive:          ptr(false),
			ManagedChargingUserCanceled:    ptr(false),
			MaxRangeChargeCounter:          0,
			MinutesToFullCharge:            0,
			OffPeakChargingEnabled:         false,
			OffPeakChargingTimes:           "all_week",
			OffPeakHoursEndTime:            360,
			PreconditioningEnabled:         false,
			PreconditioningTimes:           "all_week",
			ScheduledChargingMode:          "Off",
			ScheduledChargingPending:       false,
			ScheduledDepartureTime:         1634914800,
			ScheduledDepartureTimeMinutes:  480,
			SuperchargerSessionTripPlanner: false,
			Timestamp:                      ts,
			TripCharging:                   false,
			UsableBatteryLevel:             42,
		},

		ClimateState: &fleetv1.ClimateState{
			AllowCabinOverheatProtection:           true,
			AutoSeatClimateLeft:                    ptr(false),
			AutoSeatClimateRight:                   ptr(false),
			AutoSteeringWheelHeat:                  ptr(false),
			BatteryHeater:                          false,
			BioweaponMode:                          false,
			CabinOverheatProtection:                "On",
			CabinOverheatProtectionActivelyCooling: ptr(true),
			ClimateKeeperMode:                      "off",
			CopActivationTemperature:               "High",
			DefrostMode:                            0,
			DriverTempSetting:                      21.0,
			FanStatus:                              0,
			HvacAutoRequest:                        "On",
			InsideTemp:                             38.4,
			IsAutoConditioningOn:                   true,
			IsClimateOn:                            false,
			IsFrontDefrosterOn:                     false,
			IsPreconditioning:                      false,
			IsRearDefrosterOn:                      false,
			LeftTempDirection:                      -293,
			MaxAvailTemp:                           28.0,
			MinAvailTemp:                           15.0,
			OutsideTemp:                            36.5,
			PassengerTempSetting:                   21.0,
			RemoteHeaterControlEnabled:             false,
			RightTempDirection:                     -276,
			SeatHeaterLeft:                         0,
			SeatHeaterRearCenter:                   0,
			SeatHeaterRearLeft:                     0,
			SeatHeaterRearRight:                    0,
			SeatHeaterRight:                        0,
			SideMirrorHeaters:                      false,
			SteeringWheelHeatLevel:                 ptr(int64(0)),
			SteeringWheelHeater:                    false,
			SupportsFanOnlyCabinOverheatProtection: true,
			Timestamp:                              ts,
			WiperBladeHeater:                       false,
		},

		DriveState: &fleetv1.DriveState{
			ActiveRouteLatitude:            37.7765494,
			ActiveRouteLongitude:           -122.4195418,
			ActiveRouteTrafficMinutesDelay: 0.0,
			GpsAsOf:                        1692137422,
			Heading:                        0,
			Latitude:                       ptr(0.0),
			Longitude:                      ptr(0.0),
			NativeLocationSupported:        1,
			NativeType:                     "wgs",
			Power:                          ptr(0),
			ShiftState:                     nil,
			Speed:                          ptr(0.0),
			Timestamp:                      ts,
		},

		GuiSettings: &fleetv1.GuiSettings{
			Gui24HourTime:        false,
			GuiChargeRateUnits:   "mi/hr",
			GuiDistanceUnits:     "mi/hr",
			GuiRangeDisplay:      "Rated",
			GuiTemperatureUnits:  "F",
			GuiTirepressureUnits: "Psi",
			ShowRangeUnits:       false,
			Timestamp:            ts,
		},

		VehicleConfig: &fleetv1.VehicleConfig{
			AuxParkLamps:                ptr("NaPremium"),
			CanAcceptNavigationRequests: true,
			CanActuateTrunks:            true,
			CarSpecialType:              "base",
			CarType:                     "modely",
			ChargePortType:              "US",
			CopUserSetTempSupported:     true,
			DashcamClipSaveSupported:    true,
			DefaultChargeToMax:          false,
			DriverAssist:                "TeslaAP3",
			EceRestrictions:             false,
			EfficiencyPackage:           "MY2021",
			EuVehicle:                   false,
			ExteriorColor:               "MidnightSilver",
			ExteriorTrim:                ptr("Black"),
			ExteriorTrimOverride:        "",
			HasAirSuspension:            false,
			HasLudicrousMode:            false,
			HasSeatCooling:              false,
			HeadlampType:                "Premium",
			InteriorTrimType:            "Black2",
			KeyVersion:                  ptr(2),
			MotorizedChargePort:         true,
			PaintColorOverride:          "19,20,22,0.8,0.04",
			PerformancePackage:          ptr("Base"),
			Plg:                         true,
			Pws:                         true,
			RearDriveUnit:               "PM216MOSFET",
			RearSeatHeaters:             1,
			RearSeatType:                0,
			Rhd:                         false,
			RoofColor:                   "RoofColorGlass",
			SpoilerType:                 "None",
			SupportsQrPairing:           false,
			ThirdRowSeats:               "None",
			Timestamp:                   ts,
			TrimBadging:                 "74d",
			UseRangeBadging:             true,
			UtcOffset:                   -25200,
			WebcamSelfieSupported:       true,
			WebcamSupported:             true,
			WheelType:                   "Apollo19",
		},

		VehicleState: &fleetv1.VehicleState{
			APIVersion:               54,
			AutoparkStateV3:          ptr("ready"),
			AutoparkStyle:            "dead_man",
			CalendarSupported:        true,
			CarVersion:               "2023.7.20 7910d26d5c64",
			CenterDisplayState:       0,
			DashcamClipSaveAvailable: false,
			DashcamState:             "Unavailable",
			FeatureBitmask:           "15dffbff,0",
			HomelinkDeviceCount:      ptr(3),
			HomelinkNearby:           ptr(false),
			IsUserPresent:            false,
			LastAutoparkError:        "no_error",
			Locked:                   true,
			MediaInfo: fleetv1.MediaInfo{
				A2dpSourceName:       "Pixel 6",
				AudioVolume:          2.6667,
				AudioVolumeIncrement: 0.333333,
				AudioVolumeMax:       10.333333,
				MediaPlaybackStatus:  "Playing",
				NowPlayingAlbum:      "KQED",
				NowPlayingArtist:     "PBS Newshour on KQED FM",
				NowPlayingSource:     "13",
				NowPlayingStation:    "88.5 FM KQED",
				NowPlayingTitle:      "PBS Newshour",
			},
			MediaState:              fleetv1.MediaState{RemoteControlEnabled: true},
			NotificationsSupported:  true,
			Odometer:                0.0,
			ParsedCalendarSupported: true,
			RemoteStart:             false,
			RemoteStartEnabled:      true,
			RemoteStartSupported:    true,
			SantaMode:               0,
			SentryMode:              ptr(false),
			SentryModeAvailable:     ptr(true),
			ServiceMode:             false,
			ServiceModePlus:         false,
			SmartSummonAvailable:    true,
			SoftwareUpdate: fleetv1.SoftwareUpdate{
				DownloadPerc:        0,
				ExpectedDurationSec: 2700,
				InstallPerc:         1,
				Status:              "",
				Version:             " ",
			},
			SpeedLimitMode: fleetv1.SpeedLimitMode{
				Active:          false,
				CurrentLimitMph: 85.0,
				MaxLimitMph:     120.0,
				MinLimitMph:     50.0,
				PinCodeSet:      false,
			},
			SummonStandbyModeEnabled:   false,
			Timestamp:                  ts,
			TpmsLastSeenPressureTimeFl: ptr(ts),
			TpmsLastSeenPressureTimeFr: ptr(ts),
			TpmsLastSeenPressureTimeRl: ptr(ts),
			TpmsLastSeenPressureTimeRr: ptr(ts),
			TpmsPressureFl:             3.1,
			TpmsPressureFr:             3.1,
			TpmsPressureRl:             3.15,
			TpmsPressureRr:             3.0,
			TpmsRcpFrontValue:          2.9,
			TpmsRcpRearValue:           2.9,
			ValetMode:                  false,
			ValetPinNeeded:             true,
			VehicleName:                ptr("grADOFIN"),
			VehicleSelfTestProgress:    ptr(int64(0)),
			VehicleSelfTestRequested:   ptr(false),
			WebcamAvailable:            true,
		},
	}
}

// cloneVehicleData copies the snapshot so callers can filter sub-records
// without racing the actor. Pointer leaves are never written through, so a
// per-record shallow copy is enough.
func cloneVehicleData(d *fleetv1.VehicleData) *fleetv1.VehicleData {
	out := *d

	if d.ChargeState != nil {
		cs := *d.ChargeState
		out.ChargeState = &cs
	}
	if d.ClimateState != nil {
		cs := *d.ClimateState
		out.ClimateState = &cs
	}
	if d.DriveState != nil {
		ds := *d.DriveState
		out.DriveState = &ds
	}
	if d.GuiSettings != nil {
		gs := *d.GuiSettings
		out.GuiSettings = &gs
	}
	if d.VehicleConfig != nil {
		vc := *d.VehicleConfig
		out.VehicleConfig = &vc
	}
	if d.VehicleState != nil {
		vs := *d.VehicleState
		out.VehicleState = &vs
	}

	return &out
}
