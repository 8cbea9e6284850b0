// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"os"
	"path/filepath"
)

// WriteDataset writes a small, internally consistent CSV dataset into dir.
//
// It covers two seasons (2020 with one race, 2021 with three), three
// drivers and three constructors, and deliberately includes one orphan
// result (raceId 999) plus a retired driver with positionText "R" so the
// loader's integrity pass and lenient parsing are exercised.
//
// 2021 championship as written: Verstappen 25/43/69, Hamilton 18/43/61,
// Alonso 0/15.
func WriteDataset(dir string) error {
	files := map[string]string{
		"races.csv": `raceId,year,round,circuitId,name,date,time
1,2021,1,1,Italian Grand Prix,2021-09-12,13:00:00
2,2021,2,2,British Grand Prix,2021-07-18,14:00:00
3,2021,3,1,Emilia Romagna Grand Prix,2021-04-18,13:00:00
4,2020,1,1,Italian Grand Prix,2020-09-06,13:10:00
`,
		"results.csv": `resultId,raceId,driverId,constructorId,grid,positionText,positionOrder,points
1,1,2,2,1,1,1,25
2,1,1,1,2,2,2,18
3,1,3,3,10,R,\N,0
4,2,1,1,1,1,1,25
5,2,2,2,2,2,2,18
6,2,3,3,8,3,3,15
7,3,2,2,1,1,1,26
8,3,1,1,3,2,2,18
9,4,1,1,1,1,1,25
10,4,2,2,2,2,2,18
11,999,1,1,1,1,1,25
`,
		"drivers.csv": `driverId,driverRef,number,code,forename,surname,dob,nationality,url
1,hamilton,44,HAM,Lewis,Hamilton,1985-01-07,British,http://example.com/hamilton
2,max_verstappen,33,VER,Max,Verstappen,1997-09-30,Dutch,http://example.com/verstappen
3,alonso,14,ALO,Fernando,Alonso,1981-07-29,Spanish,http://example.com/alonso
`,
		"constructors.csv": `constructorId,constructorRef,name,nationality,url
1,mercedes,Mercedes,German,http://example.com/mercedes
2,red_bull,Red Bull,Austrian,http://example.com/red_bull
3,ferrari,Ferrari,Italian,http://example.com/ferrari
`,
		"circuits.csv": `circuitId,circuitRef,name,location,country,lat,lng,alt,url
1,monza,Autodromo Nazionale di Monza,Monza,Italy,45.6156,9.28111,162,http://example.com/monza
2,silverstone,Silverstone Circuit,Silverstone,UK,52.0786,-1.01694,153,http://example.com/silverstone
`,
		"qualifying.csv": `qualifyId,raceId,driverId,constructorId,number,position,q1,q2,q3
1,1,2,2,33,1,1:20.1,1:19.8,1:19.5
2,1,1,1,44,2,1:20.3,1:20.0,1:19.7
3,2,1,1,44,1,1:26.1,1:25.9,1:25.6
4,3,2,2,33,1,1:14.5,1:14.3,1:14.1
5,4,1,1,44,1,1:19.9,1:19.6,1:19.2
`,
	}

	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// WriteMinimalDataset writes only the four required CSV files, without
// circuits or qualifying data.
func WriteMinimalDataset(dir string) error {
	if err := WriteDataset(dir); err != nil {
		return err
	}
	for _, name := range []string{"circuits.csv", "qualifying.csv"} {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}
