package detect

// Labels is the GTSRB class catalogue. The index is the class id; the
// model's output vector is addressed by the same index. Order is fixed by
// the dataset and must never change.
var Labels = []string{
	"Speed limit (20km/h)",
	"Speed limit (30km/h)",
	"Speed limit (50km/h)",
	"Speed limit (60km/h)",
	"Speed limit (70km/h)",
	"Speed limit (80km/h)",
	"End of speed limit (80km/h)",
	"Speed limit (100km/h)",
	"Speed limit (120km/h)",
	"No passing",
	"No passing veh over 3.5 tons",
	"Right-of-way at intersection",
	"Priority road",
	"Yield",
	"Stop",
	"No vehicles",
	"Veh > 3.5 tons prohibited",
	"No entry",
	"General caution",
	"Dangerous curve left",
	"Dangerous curve right",
	"Double curve",
	"Bumpy road",
	"Slippery road",
	"Road narrows on the right",
	"Road work",
	"Traffic signals",
	"Pedestrians",
	"Children crossing",
	"Bicycles crossing",
	"Beware of ice/snow",
	"Wild animals crossing",
	"End speed + passing limits",
	"Turn right ahead",
	"Turn left ahead",
	"Ahead only",
	"Go straight or right",
	"Go straight or left",
	"Keep right",
	"Keep left",
	"Roundabout mandatory",
	"End of no passing",
	"End no passing veh > 3.5 tons",
}

// NumClasses is the size of the catalogue and the required model output length.
const NumClasses = 43
