package notebook

const title = `# Brent Oil Price Analysis - Initial Exploration

This notebook contains the initial exploration of the Brent crude oil price data and event correlations.`

const imports = `# Import required libraries
import pandas as pd
import numpy as np
import matplotlib.pyplot as plt
import seaborn as sns
from pathlib import Path

# Set style
sns.set(style='whitegrid')
plt.rcParams['figure.figsize'] = [14, 6]`

const loadData = `# Define file paths
data_dir = Path('../data')
raw_data_path = data_dir / 'raw/BrentOilPrices.csv'
events_path = data_dir / 'raw/events_tabdata.csv'

# Load data
prices_df = pd.read_csv(raw_data_path, parse_dates=['Date'], dayfirst=True)
events_df = pd.read_csv(events_path, parse_dates=['event_date'])

# Display basic info
print("\nBrent Oil Prices Data:")
print("=" * 50)
prices_df.info()

print("\n\nEvents Data:")
print("=" * 50)
events_df.info()`

const plotSeries = `# Plot price time series
plt.figure(figsize=(16, 8))
plt.plot(prices_df['Date'], prices_df['Price'], label='Daily Price', alpha=0.7)
plt.title('Brent Crude Oil Prices (1987-2022)', fontsize=16)
plt.xlabel('Year', fontsize=12)
plt.ylabel('Price (USD/barrel)', fontsize=12)
plt.grid(True, alpha=0.3)

# Add event markers
for _, event in events_df.iterrows():
    plt.axvline(x=event['event_date'], color='red', alpha=0.3, linestyle='--')
    plt.text(event['event_date'], plt.ylim()[1]*0.9, event['event_name'], 
             rotation=90, va='top', ha='right', alpha=0.7)

plt.legend()
plt.tight_layout()
plt.show()`

const basicStats = `# Basic statistics
print("Brent Oil Prices - Basic Statistics")
print("=" * 50)
print(prices_df['Price'].describe().round(2))

# Check for missing values
print("\nMissing Values:")
print("=" * 50)
print(prices_df.isnull().sum())`

const nextSteps = `1. **Data Preprocessing**:
   - Handle any missing values
   - Check for and handle outliers
   - Create additional features (e.g., rolling statistics, returns)

2. **Time Series Analysis**:
   - Test for stationarity (ADF, KPSS tests)
   - Analyze autocorrelation and partial autocorrelation
   - Decompose the time series into trend, seasonality, and residuals

3. **Change Point Detection**:
   - Implement Bayesian change point detection
   - Identify significant structural breaks
   - Correlate with known events

4. **Impact Analysis**:
   - Quantify price impacts around change points
   - Compare pre- and post-event statistics
   - Build interactive visualizations`

// Initial returns the initial-analysis notebook. Each call builds a fresh value.
func Initial() *Notebook {
	return &Notebook{
		Cells: []Cell{
			{Type: Markdown, Source: title},
			{Type: Code, Source: imports},
			{Type: Markdown, Source: "## 1. Load and Inspect Data"},
			{Type: Code, Source: loadData},
			{Type: Markdown, Source: "## 2. Initial Data Visualization"},
			{Type: Code, Source: plotSeries},
			{Type: Markdown, Source: "## 3. Basic Statistics and Data Quality"},
			{Type: Code, Source: basicStats},
			{Type: Markdown, Source: "## 4. Next Steps for Analysis"},
			{Type: Markdown, Source: nextSteps},
		},
		Metadata: Python3(),
	}
}
